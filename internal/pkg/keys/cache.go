// Copyright 2020 Insolar Network Ltd.
// All rights reserved.
// This material is licensed under the Insolar License version 1.0,
// available at https://github.com/insolar/settlement-replay/blob/master/LICENSE.md.

package keys

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
)

type Decoder interface {
	Decode(key string) ([]string, error)
}

// CachedDecoder memoizes Decode. Export and the inspection API decode the same
// keys many times over.
type CachedDecoder struct {
	cache *lru.Cache
}

func NewCachedDecoder(size int) (*CachedDecoder, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to init cache")
	}
	return &CachedDecoder{cache: cache}, nil
}

func (d *CachedDecoder) Decode(key string) ([]string, error) {
	if val, ok := d.cache.Get(key); ok {
		if parts, ok := val.([]string); ok {
			return copyParts(parts), nil
		}
	}
	parts, err := Decode(key)
	if err != nil {
		return nil, err
	}
	d.cache.Add(key, copyParts(parts))
	return parts, nil
}

func (d *CachedDecoder) Len() int {
	return d.cache.Len()
}

func copyParts(parts []string) []string {
	out := make([]string, len(parts))
	copy(out, parts)
	return out
}

type plainDecoder struct{}

func (plainDecoder) Decode(key string) ([]string, error) {
	return Decode(key)
}

// Plain is a Decoder without caching.
var Plain Decoder = plainDecoder{}
