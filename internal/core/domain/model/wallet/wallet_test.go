package wallet_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/wallet"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	return decimal.RequireFromString(s)
}

func newTestWallet(t *testing.T, balance, creditLimit string) *wallet.CourierWallet {
	t.Helper()
	w, err := wallet.RestoreCourierWallet(kernel.NewUUID(), dec(t, balance), dec(t, creditLimit))
	require.NoError(t, err)
	return w
}

func TestNewCourierWallet(t *testing.T) {
	t.Run("starts with zero balance", func(t *testing.T) {
		w, err := wallet.NewCourierWallet(kernel.NewUUID(), dec(t, "-50.00"))
		require.NoError(t, err)
		assert.True(t, w.Balance().IsZero())
	})

	t.Run("zero credit limit is allowed", func(t *testing.T) {
		_, err := wallet.NewCourierWallet(kernel.NewUUID(), decimal.Zero)
		require.NoError(t, err)
	})

	t.Run("positive credit limit is rejected", func(t *testing.T) {
		_, err := wallet.NewCourierWallet(kernel.NewUUID(), dec(t, "10.00"))
		require.ErrorIs(t, err, wallet.ErrCreditLimitIsPositive)
	})
}

func TestCanCapture(t *testing.T) {
	t.Run("blocks when future balance is strictly below limit", func(t *testing.T) {
		w := newTestWallet(t, "10.00", "-50.00")
		err := w.CanCapture(dec(t, "60.01"))
		require.ErrorIs(t, err, wallet.ErrInsufficientCredit)
	})

	t.Run("succeeds when future balance equals limit exactly", func(t *testing.T) {
		w := newTestWallet(t, "10.00", "-50.00")
		require.NoError(t, w.CanCapture(dec(t, "60.00")))
	})

	t.Run("succeeds with headroom", func(t *testing.T) {
		w := newTestWallet(t, "100.00", "-50.00")
		require.NoError(t, w.CanCapture(dec(t, "15.00")))
	})
}

func TestDebitForCapture(t *testing.T) {
	t.Run("debits fee and records ledger entry", func(t *testing.T) {
		w := newTestWallet(t, "100.00", "-50.00")
		deliveryID := kernel.NewUUID()

		entry, err := w.DebitForCapture(deliveryID, dec(t, "15.00"), time.Now())
		require.NoError(t, err)

		assert.True(t, w.Balance().Equal(dec(t, "85.00")), w.Balance().String())
		assert.Equal(t, wallet.EntryTypeFeeDebit, entry.Type())
		assert.True(t, entry.Amount().Equal(dec(t, "-15.00")))
		assert.True(t, entry.BalanceAfter().Equal(dec(t, "85.00")))
		require.NotNil(t, entry.DeliveryID())
		assert.True(t, entry.DeliveryID().IsEqual(deliveryID))
	})

	t.Run("insufficient credit leaves balance unchanged", func(t *testing.T) {
		w := newTestWallet(t, "0.00", "-10.00")

		_, err := w.DebitForCapture(kernel.NewUUID(), dec(t, "10.01"), time.Now())

		require.ErrorIs(t, err, wallet.ErrInsufficientCredit)
		assert.True(t, w.Balance().IsZero())
	})

	t.Run("allowed deficit down to the limit", func(t *testing.T) {
		w := newTestWallet(t, "0.00", "-10.00")

		_, err := w.DebitForCapture(kernel.NewUUID(), dec(t, "10.00"), time.Now())

		require.NoError(t, err)
		assert.True(t, w.Balance().Equal(dec(t, "-10.00")))
	})
}

func TestRefundForRelease(t *testing.T) {
	t.Run("capture then release restores the balance", func(t *testing.T) {
		w := newTestWallet(t, "100.00", "-50.00")
		deliveryID := kernel.NewUUID()
		fee := dec(t, "15.00")

		debit, err := w.DebitForCapture(deliveryID, fee, time.Now())
		require.NoError(t, err)

		refund, err := w.RefundForRelease(deliveryID, fee, time.Now())
		require.NoError(t, err)

		assert.True(t, w.Balance().Equal(dec(t, "100.00")))
		assert.Equal(t, wallet.EntryTypeFeeDebit, debit.Type())
		assert.Equal(t, wallet.EntryTypeRefund, refund.Type())
		assert.True(t, refund.Amount().Equal(fee))
	})
}

func TestCreditForDelivery(t *testing.T) {
	w := newTestWallet(t, "20.00", "-50.00")
	deliveryID := kernel.NewUUID()

	entry, err := w.CreditForDelivery(deliveryID, dec(t, "5.00"), time.Now())
	require.NoError(t, err)

	assert.True(t, w.Balance().Equal(dec(t, "25.00")))
	assert.Equal(t, wallet.EntryTypeCompletedCredit, entry.Type())
}

func TestAdjustManually(t *testing.T) {
	t.Run("positive amount records manual credit", func(t *testing.T) {
		w := newTestWallet(t, "0.00", "-50.00")

		entry, err := w.AdjustManually(dec(t, "30.00"), "promo top-up", time.Now())
		require.NoError(t, err)

		assert.Equal(t, wallet.EntryTypeManualCredit, entry.Type())
		assert.Nil(t, entry.DeliveryID())
		assert.True(t, w.Balance().Equal(dec(t, "30.00")))
	})

	t.Run("negative amount records manual debit", func(t *testing.T) {
		w := newTestWallet(t, "0.00", "-50.00")

		entry, err := w.AdjustManually(dec(t, "-5.00"), "penalty", time.Now())
		require.NoError(t, err)

		assert.Equal(t, wallet.EntryTypeManualDebit, entry.Type())
		assert.True(t, w.Balance().Equal(dec(t, "-5.00")))
	})

	t.Run("zero amount is rejected", func(t *testing.T) {
		w := newTestWallet(t, "0.00", "-50.00")
		_, err := w.AdjustManually(decimal.Zero, "noop", time.Now())
		require.Error(t, err)
	})
}

func TestStationWallet(t *testing.T) {
	t.Run("commission rate bounds", func(t *testing.T) {
		_, err := wallet.NewStationWallet(kernel.NewUUID(), dec(t, "0.05"))
		require.Error(t, err)

		_, err = wallet.NewStationWallet(kernel.NewUUID(), dec(t, "0.13"))
		require.Error(t, err)

		_, err = wallet.NewStationWallet(kernel.NewUUID(), dec(t, "0.06"))
		require.NoError(t, err)

		_, err = wallet.NewStationWallet(kernel.NewUUID(), dec(t, "0.12"))
		require.NoError(t, err)
	})

	t.Run("credits exact commission", func(t *testing.T) {
		w, err := wallet.NewStationWallet(kernel.NewUUID(), dec(t, "0.10"))
		require.NoError(t, err)

		amount := w.CreditCommission(dec(t, "20.00"))

		assert.True(t, amount.Equal(dec(t, "2.00")), amount.String())
		assert.True(t, w.Balance().Equal(dec(t, "2.00")))
	})
}

func TestEntryTypeValidate(t *testing.T) {
	for _, et := range []wallet.EntryType{
		wallet.EntryTypeFeeDebit,
		wallet.EntryTypeCompletedCredit,
		wallet.EntryTypeManualCredit,
		wallet.EntryTypeManualDebit,
		wallet.EntryTypeRefund,
	} {
		require.NoError(t, et.Validate(), et.String())
	}

	require.Error(t, wallet.EntryTypeUnknown.Validate())
	require.Error(t, wallet.EntryType(42).Validate())
}
