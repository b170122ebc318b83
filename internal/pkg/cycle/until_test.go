// Copyright 2020 Insolar Network Ltd.
// All rights reserved.
// This material is licensed under the Insolar License version 1.0,
// available at https://github.com/insolar/settlement-replay/blob/master/LICENSE.md.

package cycle

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestUntilConnectionError(t *testing.T) {
	log := logrus.New()
	ctx := context.Background()

	t.Run("retried", func(t *testing.T) {
		calls := 0
		err := UntilConnectionError(ctx, func() error {
			calls++
			if calls < 3 {
				return errors.New("connection refused")
			}
			return nil
		}, time.Millisecond, 5, log)
		require.NoError(t, err)
		require.Equal(t, 3, calls)
	})

	t.Run("attempts_exhausted", func(t *testing.T) {
		calls := 0
		err := UntilConnectionError(ctx, func() error {
			calls++
			return errors.New("unexpected EOF")
		}, time.Millisecond, 2, log)
		require.Error(t, err)
		require.Equal(t, 2, calls)
	})

	t.Run("other_error", func(t *testing.T) {
		calls := 0
		expected := errors.New("duplicate key")
		err := UntilConnectionError(ctx, func() error {
			calls++
			return expected
		}, time.Millisecond, INFINITY, log)
		require.Equal(t, expected, err)
		require.Equal(t, 1, calls)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(ctx)
		cancel()
		err := UntilConnectionError(ctx, func() error {
			return errors.New("connection reset")
		}, time.Hour, INFINITY, log)
		require.Equal(t, context.Canceled, errors.Cause(err))
	})
}
