// Copyright 2020 Insolar Network Ltd.
// All rights reserved.
// This material is licensed under the Insolar License version 1.0,
// available at https://github.com/insolar/settlement-replay/blob/master/LICENSE.md.

package configuration

//go:generate go run ./gen

// Configurations returns the default config of every binary by file name.
func Configurations() map[string]interface{} {
	cfgs := make(map[string]interface{})
	cfgs[ConfigFilePath] = Default()

	return cfgs
}
