// Copyright 2020 Insolar Network Ltd.
// All rights reserved.
// This material is licensed under the Insolar License version 1.0,
// available at https://github.com/insolar/settlement-replay/blob/master/LICENSE.md.

package operation

import (
	"github.com/sirupsen/logrus"

	"github.com/insolar/settlement-replay/internal/app/replay/challenge"
	"github.com/insolar/settlement-replay/internal/app/replay/clientfund"
	"github.com/insolar/settlement-replay/internal/app/replay/settlement"
)

// ReplayContext holds every ledger a replay run mutates.
type ReplayContext struct {
	ClientFund                    *clientfund.ClientFund
	DriipSettlementChallengeState *challenge.DriipSettlementChallengeState
	NullSettlementChallengeState  *challenge.NullSettlementChallengeState
	DriipSettlementState          *settlement.DriipSettlementState
	NullSettlementState           *settlement.NullSettlementState
}

// NewReplayContext builds empty ledgers. timeout is the settlement challenge period in seconds.
func NewReplayContext(log *logrus.Logger, timeout uint64, strictWithdrawal bool) *ReplayContext {
	return &ReplayContext{
		ClientFund:                    clientfund.New(log, strictWithdrawal),
		DriipSettlementChallengeState: challenge.NewDriipSettlementChallengeState(timeout),
		NullSettlementChallengeState:  challenge.NewNullSettlementChallengeState(timeout),
		DriipSettlementState:          settlement.NewDriipSettlementState(),
		NullSettlementState:           settlement.NewNullSettlementState(),
	}
}
