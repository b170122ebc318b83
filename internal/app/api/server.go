// Copyright 2020 Insolar Network Ltd.
// All rights reserved.
// This material is licensed under the Insolar License version 1.0,
// available at https://github.com/insolar/settlement-replay/blob/master/LICENSE.md.

package api

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/insolar/settlement-replay/internal/app/replay"
	"github.com/insolar/settlement-replay/internal/app/replay/challenge"
	"github.com/insolar/settlement-replay/internal/app/replay/operation"
	"github.com/insolar/settlement-replay/internal/pkg/keys"
)

const (
	KindDriip = "driip"
	KindNull  = "null"
)

// ReplayServer serves read-only views of a finished replay.
type ReplayServer struct {
	log     *logrus.Logger
	rc      *operation.ReplayContext
	decoder keys.Decoder
}

func NewReplayServer(log *logrus.Logger, rc *operation.ReplayContext, decoder keys.Decoder) *ReplayServer {
	return &ReplayServer{log: log, rc: rc, decoder: decoder}
}

func RegisterHandlers(e *echo.Echo, s *ReplayServer) {
	e.GET("/balances/:wallet", s.GetBalances)
	e.GET("/proposals/:kind/:wallet", s.GetProposals)
	e.GET("/settlements/:wallet", s.GetSettlements)
	e.GET("/fees/:wallet", s.GetFees)
}

func (s *ReplayServer) GetBalances(ctx echo.Context) error {
	wallet, err := walletParam(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, NewSingleMessageError("wallet wrong format"))
	}
	balances := s.rc.ClientFund.WalletBalances(wallet)
	if len(balances) == 0 {
		return ctx.JSON(http.StatusNotFound, NewSingleMessageError("wallet not found"))
	}
	return ctx.JSON(http.StatusOK, BalancesResponse{
		Wallet:   replay.WalletKey(wallet),
		Balances: balances,
	})
}

func (s *ReplayServer) GetProposals(ctx echo.Context) error {
	wallet, err := walletParam(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, NewSingleMessageError("wallet wrong format"))
	}

	var all []challenge.Proposal
	kind := ctx.Param("kind")
	switch kind {
	case KindDriip:
		all = s.rc.DriipSettlementChallengeState.Proposals()
	case KindNull:
		all = s.rc.NullSettlementChallengeState.Proposals()
	default:
		return ctx.JSON(http.StatusBadRequest, NewSingleMessageError("kind should be 'driip' or 'null'"))
	}

	proposals := make([]challenge.Proposal, 0)
	for _, p := range all {
		if p.Wallet == wallet {
			proposals = append(proposals, p)
		}
	}
	return ctx.JSON(http.StatusOK, ProposalsResponse{
		Wallet:    replay.WalletKey(wallet),
		Kind:      kind,
		Proposals: proposals,
	})
}

func (s *ReplayServer) GetSettlements(ctx echo.Context) error {
	wallet, err := walletParam(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, NewSingleMessageError("wallet wrong format"))
	}
	return ctx.JSON(http.StatusOK, SettlementsResponse{
		Wallet:      replay.WalletKey(wallet),
		Settlements: s.rc.DriipSettlementState.SettlementsByWallet(wallet),
	})
}

func (s *ReplayServer) GetFees(ctx echo.Context) error {
	wallet, err := walletParam(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, NewSingleMessageError("wallet wrong format"))
	}
	fees, err := s.rc.DriipSettlementState.TotalFeesByWallet(s.decoder, wallet)
	if err != nil {
		s.log.Error(err)
		return ctx.JSON(http.StatusInternalServerError, struct{}{})
	}
	return ctx.JSON(http.StatusOK, FeesResponse{
		Wallet: replay.WalletKey(wallet),
		Fees:   fees,
	})
}

func walletParam(ctx echo.Context) (common.Address, error) {
	return keys.ParseAddress(ctx.Param("wallet"))
}
