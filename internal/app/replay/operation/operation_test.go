// Copyright 2020 Insolar Network Ltd.
// All rights reserved.
// This material is licensed under the Insolar License version 1.0,
// available at https://github.com/insolar/settlement-replay/blob/master/LICENSE.md.

package operation

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gojuno/minimock/v3"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insolar/settlement-replay/internal/app/replay"
	"github.com/insolar/settlement-replay/internal/app/replay/settlement"
	"github.com/insolar/settlement-replay/internal/pkg/bn"
	"github.com/insolar/settlement-replay/internal/pkg/jsonfile"
)

const timeout = 432000

var (
	sender    = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	recipient = common.HexToAddress("0x00000000000000000000000000000000000000bb")
	stranger  = common.HexToAddress("0x00000000000000000000000000000000000000cc")
	eth       = replay.Currency{}
	fee       = replay.Currency{CT: common.HexToAddress("0x00000000000000000000000000000000000000dd")}
	sealHash  = common.HexToHash("0x0101010101010101010101010101010101010101010101010101010101010101")
)

func header(w common.Address, block, ts uint64) replay.Header {
	return replay.Header{Wallet: w, BlockNumber: block, BlockTimestamp: ts}
}

// payment of nonce 7 made at block 18, leaving the sender with 550 and the recipient with 450.
func makePayment() replay.Payment {
	return replay.Payment{
		Nonce:       7,
		BlockNumber: 18,
		Amount:      bn.New(450),
		Currency:    eth,
		Sender: replay.PaymentParty{
			Wallet:   sender,
			Nonce:    3,
			Balances: replay.Balances{Current: bn.New(550), Previous: bn.New(1000)},
			Fees: replay.PartyFees{
				Single: replay.Figure{Amount: bn.New(1), Currency: fee},
				Total:  []replay.Figure{{Amount: bn.New(2), Currency: fee}},
			},
		},
		Recipient: replay.PaymentParty{
			Wallet:   recipient,
			Nonce:    5,
			Balances: replay.Balances{Current: bn.New(450), Previous: bn.New(0)},
		},
		Seals: replay.Seals{Operator: replay.Seal{Hash: sealHash}},
	}
}

// next payment of the sender, nonce 8, moving another 250 to the recipient.
func makeNextPayment(blockNumber uint64) replay.Payment {
	payment := makePayment()
	payment.Nonce = 8
	payment.BlockNumber = blockNumber
	payment.Amount = bn.New(250)
	payment.Sender.Nonce = 4
	payment.Sender.Balances = replay.Balances{Current: bn.New(300), Previous: bn.New(550)}
	payment.Recipient.Nonce = 6
	payment.Recipient.Balances = replay.Balances{Current: bn.New(700), Previous: bn.New(450)}
	payment.Seals.Operator.Hash = common.HexToHash("0x0202020202020202020202020202020202020202020202020202020202020202")
	return payment
}

func newExecutor() *Executor {
	log := logrus.New()
	return NewExecutor(log, NewReplayContext(log, timeout, true), NewValidator())
}

func TestValidator_IsPaymentSender(t *testing.T) {
	v := NewValidator()
	payment := makePayment()

	isSender, err := v.IsPaymentSender(&payment, sender)
	require.NoError(t, err)
	require.True(t, isSender)

	isSender, err = v.IsPaymentSender(&payment, recipient)
	require.NoError(t, err)
	require.False(t, isSender)

	_, err = v.IsPaymentSender(&payment, stranger)
	require.Equal(t, replay.ErrUnknownPaymentParty, errors.Cause(err))
}

func TestDriipSettlementChallengeByPayment_StartChallenge(t *testing.T) {
	mc := minimock.NewController(t)
	defer mc.Finish()

	log := logrus.New()
	rc := NewReplayContext(log, timeout, true)
	require.NoError(t, rc.ClientFund.Receive(sender, bn.New(1000), eth, 10))
	require.NoError(t, rc.ClientFund.Stage(sender, bn.New(400), eth, 15))

	step := &replay.StartPaymentChallenge{
		Header:      header(sender, 20, 1000),
		Payment:     makePayment(),
		StageAmount: bn.New(400),
	}
	validator := NewPaymentValidatorMock(mc).IsPaymentSenderMock.Expect(&step.Payment, sender).Return(true, nil)

	require.NoError(t, NewDriipSettlementChallengeByPayment(log, rc, validator).StartChallenge(step))

	p, err := rc.DriipSettlementChallengeState.GetProposal(sender, eth)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), p.Nonce)
	assert.Equal(t, uint64(18), p.ReferenceBlockNumber)
	assert.Equal(t, uint64(20), p.DefinitionBlockNumber)
	assert.Equal(t, uint64(1000+timeout), p.ExpirationTime)
	assert.Equal(t, "-50", p.Amounts.CumulativeTransfer.String())
	assert.Equal(t, "400", p.Amounts.Stage.String())
	assert.Equal(t, "150", p.Amounts.TargetBalance.String())
	assert.Equal(t, replay.PaymentKind, p.Challenged.Kind)
	assert.Equal(t, sealHash, p.Challenged.Hash)
	assert.True(t, p.WalletInitiated)
}

func TestDriipSettlementChallengeByPayment_UnknownParty(t *testing.T) {
	mc := minimock.NewController(t)
	defer mc.Finish()

	log := logrus.New()
	rc := NewReplayContext(log, timeout, true)
	step := &replay.StartPaymentChallenge{
		Header:      header(stranger, 20, 1000),
		Payment:     makePayment(),
		StageAmount: bn.New(0),
	}
	validator := NewPaymentValidatorMock(mc).IsPaymentSenderMock.Return(false, replay.ErrUnknownPaymentParty)

	err := NewDriipSettlementChallengeByPayment(log, rc, validator).StartChallenge(step)
	require.Equal(t, replay.ErrUnknownPaymentParty, errors.Cause(err))
	require.False(t, rc.DriipSettlementChallengeState.HasProposal(stranger, eth))
}

func TestDriipSettlementByPayment_SettlePayment(t *testing.T) {
	ctx := context.Background()

	t.Run("sender", func(t *testing.T) {
		e := newExecutor()
		rc := e.Context()
		payment := makePayment()

		require.NoError(t, e.Execute(ctx, &replay.Receive{Header: header(sender, 10, 100), Amount: bn.New(1000), Currency: eth}))
		require.NoError(t, rc.ClientFund.Stage(sender, bn.New(400), eth, 15))
		require.Equal(t, "600", rc.ClientFund.DepositedBalance(sender, eth).String())
		require.Equal(t, "400", rc.ClientFund.StagedBalance(sender, eth).String())

		require.NoError(t, e.Execute(ctx, &replay.StartPaymentChallenge{
			Header:      header(sender, 20, 1000),
			Payment:     payment,
			StageAmount: bn.New(400),
		}))
		require.NoError(t, e.Execute(ctx, &replay.SettlePayment{
			Header:  header(sender, 21, 1000+timeout),
			Payment: payment,
		}))

		fund := rc.ClientFund
		// 550 active before staging 400 of it
		assert.Equal(t, "-50", fund.SettledBalance(sender, eth).String())
		assert.Equal(t, "200", fund.DepositedBalance(sender, eth).String())
		assert.Equal(t, "800", fund.StagedBalance(sender, eth).String())
		assert.Equal(t, "150", fund.ActiveBalance(sender, eth).Value.String())
		assert.Equal(t, uint64(21), fund.ActiveBalance(sender, eth).BlockNumber)

		p, err := rc.DriipSettlementChallengeState.GetProposal(sender, eth)
		require.NoError(t, err)
		assert.True(t, p.Terminated)

		dss := rc.DriipSettlementState
		assert.Equal(t, "-50", dss.SettledAmountByBlockNumber(sender, eth, 21).String())
		assert.Equal(t, "0", dss.SettledAmountByBlockNumber(sender, eth, 20).String())
		assert.Equal(t, uint64(7), dss.MaxNonceByWalletAndCurrency(sender, eth))

		st, err := dss.SettlementByWalletAndNonce(sender, 3)
		require.NoError(t, err)
		assert.Equal(t, uint64(21), st.Origin.DoneBlockNumber)
		assert.Equal(t, uint64(0), st.Target.DoneBlockNumber)
		assert.Equal(t, recipient, st.Target.Wallet)
		assert.Equal(t, uint64(5), st.Target.Nonce)

		total, ok := dss.TotalFee(sender, fee)
		require.True(t, ok)
		assert.Equal(t, uint64(3), total.Nonce)
		assert.Equal(t, "2", total.Amount.String())
	})

	t.Run("both_parties", func(t *testing.T) {
		e := newExecutor()
		rc := e.Context()
		payment := makePayment()

		steps := []replay.Step{
			&replay.Receive{Header: header(sender, 10, 100), Amount: bn.New(1000), Currency: eth},
			&replay.StartPaymentChallenge{Header: header(sender, 20, 1000), Payment: payment, StageAmount: bn.New(0)},
			&replay.StartPaymentChallenge{Header: header(recipient, 20, 1000), Payment: payment, StageAmount: bn.New(0)},
			&replay.SettlePayment{Header: header(sender, 21, 1000+timeout), Payment: payment},
			&replay.SettlePayment{Header: header(recipient, 22, 1000+timeout), Payment: payment},
		}
		require.NoError(t, e.ExecuteAll(ctx, steps))

		fund := rc.ClientFund
		assert.Equal(t, "550", fund.ActiveBalance(sender, eth).Value.String())
		assert.Equal(t, "450", fund.ActiveBalance(recipient, eth).Value.String())
		assert.Equal(t, "450", fund.SettledBalance(recipient, eth).String())
		assert.Equal(t, "0", fund.StagedBalance(recipient, eth).String())

		dss := rc.DriipSettlementState
		require.Equal(t, 1, dss.SettlementsCount())
		st, err := dss.SettlementByWalletAndNonce(recipient, 5)
		require.NoError(t, err)
		assert.Equal(t, uint64(21), st.Origin.DoneBlockNumber)
		assert.Equal(t, uint64(22), st.Target.DoneBlockNumber)
		assert.Equal(t, "450", dss.SettledAmountByBlockNumber(recipient, eth, 22).String())
		assert.Equal(t, "-450", dss.SettledAmountByBlockNumber(sender, eth, 22).String())
	})

	t.Run("sequential_payments", func(t *testing.T) {
		for _, c := range []struct {
			name        string
			secondBlock uint64
		}{
			{"second_after_first_settled", 25},
			{"second_before_first_settled", 19},
		} {
			t.Run(c.name, func(t *testing.T) {
				e := newExecutor()
				rc := e.Context()
				first := makePayment()
				second := makeNextPayment(c.secondBlock)

				require.NoError(t, e.ExecuteAll(ctx, []replay.Step{
					&replay.Receive{Header: header(sender, 10, 100), Amount: bn.New(1000), Currency: eth},
					&replay.StartPaymentChallenge{Header: header(sender, 20, 1000), Payment: first, StageAmount: bn.New(0)},
					&replay.SettlePayment{Header: header(sender, 21, 1000+timeout), Payment: first},
					&replay.StartPaymentChallenge{Header: header(sender, 26, 2000), Payment: second, StageAmount: bn.New(0)},
				}))
				assert.Equal(t, "550", rc.ClientFund.ActiveBalance(sender, eth).Value.String())

				p, err := rc.DriipSettlementChallengeState.GetProposal(sender, eth)
				require.NoError(t, err)
				assert.Equal(t, uint64(8), p.Nonce)
				assert.Equal(t, "-250", p.Amounts.CumulativeTransfer.String())
				assert.Equal(t, "300", p.Amounts.TargetBalance.String())

				require.NoError(t, e.Execute(ctx, &replay.SettlePayment{Header: header(sender, 27, 2000+timeout), Payment: second}))

				fund := rc.ClientFund
				assert.Equal(t, second.Sender.Balances.Current.String(), fund.ActiveBalance(sender, eth).Value.String())
				assert.Equal(t, "1000", fund.DepositedBalance(sender, eth).String())
				assert.Equal(t, "-700", fund.SettledBalance(sender, eth).String())
				assert.Equal(t, uint64(8), rc.DriipSettlementState.MaxNonceByWalletAndCurrency(sender, eth))

				dir, err := ioutil.TempDir("", "driip-settlement")
				require.NoError(t, err)
				defer os.RemoveAll(dir)
				require.NoError(t, rc.DriipSettlementState.ExportState(dir))

				var amounts map[string]bn.Int
				require.NoError(t, jsonfile.Read(filepath.Join(dir, settlement.WalletCurrencyBlockNumberSettledAmountFile), &amounts))
				assert.Len(t, amounts, 2)
				assert.Equal(t, "-450", amounts[replay.WalletCurrencyBlockKey(sender, eth, 21)].String())
				assert.Equal(t, "-700", amounts[replay.WalletCurrencyBlockKey(sender, eth, 27)].String())

				var blocks map[string][]uint64
				require.NoError(t, jsonfile.Read(filepath.Join(dir, settlement.WalletCurrencySettledBlockNumbersFile), &blocks))
				assert.Equal(t, []uint64{21, 27}, blocks[replay.WalletCurrencyKey(sender, eth)])
			})
		}
	})

	t.Run("block_number_regression", func(t *testing.T) {
		e := newExecutor()
		rc := e.Context()
		payment := makePayment()

		require.NoError(t, e.ExecuteAll(ctx, []replay.Step{
			&replay.Receive{Header: header(sender, 10, 100), Amount: bn.New(1000), Currency: eth},
			&replay.StartPaymentChallenge{Header: header(sender, 20, 1000), Payment: payment, StageAmount: bn.New(400)},
			&replay.Receive{Header: header(sender, 30, 3000), Amount: bn.New(10), Currency: eth},
		}))

		err := e.Execute(ctx, &replay.SettlePayment{Header: header(sender, 25, 1000+timeout), Payment: payment})
		require.Equal(t, replay.ErrBlockNumberRegression, errors.Cause(err))

		dss := rc.DriipSettlementState
		assert.Equal(t, 0, dss.SettlementsCount())
		assert.Equal(t, uint64(0), dss.LastSettledBlockNumber(sender, eth))
		assert.Equal(t, "0", rc.ClientFund.SettledBalance(sender, eth).String())
		assert.Equal(t, "1010", rc.ClientFund.DepositedBalance(sender, eth).String())
		assert.Equal(t, "0", rc.ClientFund.StagedBalance(sender, eth).String())

		p, err := rc.DriipSettlementChallengeState.GetProposal(sender, eth)
		require.NoError(t, err)
		assert.False(t, p.Terminated)
	})

	t.Run("party_done", func(t *testing.T) {
		e := newExecutor()
		payment := makePayment()

		steps := []replay.Step{
			&replay.Receive{Header: header(sender, 10, 100), Amount: bn.New(1000), Currency: eth},
			&replay.StartPaymentChallenge{Header: header(sender, 20, 1000), Payment: payment, StageAmount: bn.New(0)},
			&replay.SettlePayment{Header: header(sender, 21, 1000+timeout), Payment: payment},
			&replay.StartPaymentChallenge{Header: header(sender, 22, 2000), Payment: payment, StageAmount: bn.New(0)},
		}
		require.NoError(t, e.ExecuteAll(ctx, steps))

		err := e.Execute(ctx, &replay.SettlePayment{Header: header(sender, 23, 2000+timeout), Payment: payment})
		require.Equal(t, replay.ErrSettlementPartyDone, errors.Cause(err))
	})

	t.Run("terminated_proposal", func(t *testing.T) {
		e := newExecutor()
		payment := makePayment()

		steps := []replay.Step{
			&replay.Receive{Header: header(sender, 10, 100), Amount: bn.New(1000), Currency: eth},
			&replay.StartPaymentChallenge{Header: header(sender, 20, 1000), Payment: payment, StageAmount: bn.New(0)},
			&replay.SettlePayment{Header: header(sender, 21, 1000+timeout), Payment: payment},
		}
		require.NoError(t, e.ExecuteAll(ctx, steps))

		err := e.Execute(ctx, &replay.SettlePayment{Header: header(sender, 22, 1000+timeout), Payment: payment})
		require.Equal(t, replay.ErrProposalTerminated, errors.Cause(err))
	})

	t.Run("no_proposal", func(t *testing.T) {
		e := newExecutor()
		err := e.Execute(ctx, &replay.SettlePayment{Header: header(sender, 21, 1000), Payment: makePayment()})
		require.Equal(t, replay.ErrProposalNotFound, errors.Cause(err))
		require.Equal(t, 0, e.Context().DriipSettlementState.SettlementsCount())
	})
}

func TestNullSettlement(t *testing.T) {
	ctx := context.Background()

	t.Run("after_driip_settlement", func(t *testing.T) {
		e := newExecutor()
		rc := e.Context()
		payment := makePayment()

		steps := []replay.Step{
			&replay.Receive{Header: header(sender, 10, 100), Amount: bn.New(1000), Currency: eth},
			&replay.StartPaymentChallenge{Header: header(sender, 20, 1000), Payment: payment, StageAmount: bn.New(400)},
			&replay.SettlePayment{Header: header(sender, 21, 1000+timeout), Payment: payment},
			&replay.Withdraw{Header: header(sender, 22, 1000+timeout), Amount: bn.New(400), Currency: eth},
			&replay.StartNullChallenge{Header: header(sender, 30, 5000), Currency: eth, StageAmount: bn.New(100)},
		}
		require.NoError(t, e.ExecuteAll(ctx, steps))

		p, err := rc.NullSettlementChallengeState.GetProposal(sender, eth)
		require.NoError(t, err)
		assert.Equal(t, uint64(7), p.Nonce)
		assert.Equal(t, "50", p.Amounts.TargetBalance.String())
		assert.Equal(t, "100", p.Amounts.Stage.String())
		assert.Equal(t, uint64(21), p.ReferenceBlockNumber)

		require.NoError(t, e.Execute(ctx, &replay.SettleNull{Header: header(sender, 31, 5000+timeout), Currency: eth}))

		fund := rc.ClientFund
		assert.Equal(t, "500", fund.DepositedBalance(sender, eth).String())
		assert.Equal(t, "-450", fund.SettledBalance(sender, eth).String())
		assert.Equal(t, "100", fund.StagedBalance(sender, eth).String())
		assert.Equal(t, uint64(7), rc.NullSettlementState.MaxNonceByWalletAndCurrency(sender, eth))

		p, err = rc.NullSettlementChallengeState.GetProposal(sender, eth)
		require.NoError(t, err)
		assert.True(t, p.Terminated)

		err = e.Execute(ctx, &replay.SettleNull{Header: header(sender, 32, 5000+timeout), Currency: eth})
		require.Equal(t, replay.ErrProposalTerminated, errors.Cause(err))
	})

	t.Run("open_driip_proposal", func(t *testing.T) {
		e := newExecutor()
		rc := e.Context()

		steps := []replay.Step{
			&replay.Receive{Header: header(sender, 10, 100), Amount: bn.New(1000), Currency: eth},
			&replay.StartPaymentChallenge{Header: header(sender, 20, 1000), Payment: makePayment(), StageAmount: bn.New(100)},
			&replay.StartNullChallenge{Header: header(sender, 25, 1100), Currency: eth, StageAmount: bn.New(200)},
		}
		require.NoError(t, e.ExecuteAll(ctx, steps))

		// 1000 - 450 - 100 - 200
		p, err := rc.NullSettlementChallengeState.GetProposal(sender, eth)
		require.NoError(t, err)
		assert.Equal(t, "250", p.Amounts.TargetBalance.String())
		assert.Equal(t, uint64(7), p.Nonce)
	})

	t.Run("negative_target_balance", func(t *testing.T) {
		e := newExecutor()
		err := e.Execute(ctx, &replay.StartNullChallenge{Header: header(sender, 25, 1100), Currency: eth, StageAmount: bn.New(1)})
		require.Equal(t, replay.ErrNegativeAmount, errors.Cause(err))
		require.False(t, e.Context().NullSettlementChallengeState.HasProposal(sender, eth))
	})

	t.Run("no_proposal", func(t *testing.T) {
		e := newExecutor()
		err := e.Execute(ctx, &replay.SettleNull{Header: header(sender, 25, 1100), Currency: eth})
		require.Equal(t, replay.ErrProposalNotFound, errors.Cause(err))
	})
}

func TestExecutor_Execute(t *testing.T) {
	t.Run("decoded_steps", func(t *testing.T) {
		data := []byte(`[
			{"action":"receive","wallet":"0x00000000000000000000000000000000000000aa","blockNumber":10,"blockTimestamp":100,
			 "data":{"amount":"1000","currency":{"ct":"0x0000000000000000000000000000000000000000","id":"0"}}},
			{"action":"start-null-challenge","wallet":"0x00000000000000000000000000000000000000aa","blockNumber":20,"blockTimestamp":200,
			 "data":{"stageAmount":"300","currency":{"ct":"0x0000000000000000000000000000000000000000","id":"0"}}},
			{"action":"settle-null","wallet":"0x00000000000000000000000000000000000000aa","blockNumber":30,"blockTimestamp":432200,
			 "data":{"currency":{"ct":"0x0000000000000000000000000000000000000000","id":"0"}}},
			{"action":"withdraw","wallet":"0x00000000000000000000000000000000000000aa","blockNumber":40,"blockTimestamp":432300,
			 "data":{"amount":"300","currency":{"ct":"0x0000000000000000000000000000000000000000","id":"0"}}}
		]`)
		steps, err := replay.DecodeSteps(data)
		require.NoError(t, err)

		e := newExecutor()
		require.NoError(t, e.ExecuteAll(context.Background(), steps))

		fund := e.Context().ClientFund
		assert.Equal(t, "700", fund.DepositedBalance(sender, eth).String())
		assert.Equal(t, "0", fund.StagedBalance(sender, eth).String())
	})

	t.Run("strict_withdrawal", func(t *testing.T) {
		e := newExecutor()
		err := e.ExecuteAll(context.Background(), []replay.Step{
			&replay.Receive{Header: header(sender, 10, 100), Amount: bn.New(1000), Currency: eth},
			&replay.Withdraw{Header: header(sender, 11, 110), Amount: bn.New(1), Currency: eth},
		})
		require.Equal(t, replay.ErrInsufficientStaged, errors.Cause(err))
		require.Contains(t, err.Error(), "step #1")
	})

	t.Run("block_number_regression", func(t *testing.T) {
		e := newExecutor()
		err := e.ExecuteAll(context.Background(), []replay.Step{
			&replay.Receive{Header: header(sender, 10, 100), Amount: bn.New(1000), Currency: eth},
			&replay.Receive{Header: header(sender, 9, 90), Amount: bn.New(1), Currency: eth},
		})
		require.Equal(t, replay.ErrBlockNumberRegression, errors.Cause(err))
		require.Equal(t, "1000", e.Context().ClientFund.DepositedBalance(sender, eth).String())
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		e := newExecutor()
		err := e.Execute(ctx, &replay.Receive{Header: header(sender, 10, 100), Amount: bn.New(1), Currency: eth})
		require.Equal(t, context.Canceled, err)
	})
}
