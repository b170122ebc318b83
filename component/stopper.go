// Copyright 2020 Insolar Network Ltd.
// All rights reserved.
// This material is licensed under the Insolar License version 1.0,
// available at https://github.com/insolar/settlement-replay/blob/master/LICENSE.md.

package component

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/insolar/settlement-replay/observability"
)

type closer interface {
	Close() error
}

func makeStopper(obs *observability.Observability, conn closer, router *Router) func() {
	log := obs.Log()
	return func() {
		var wg sync.WaitGroup
		wg.Add(2)

		go func() {
			defer wg.Done()
			err := conn.Close()
			if err != nil {
				log.Error(errors.Wrapf(err, "failed to close db"))
			}
		}()

		go func() {
			defer wg.Done()
			router.Stop()
		}()

		wg.Wait()
	}
}
