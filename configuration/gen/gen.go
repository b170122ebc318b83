// Copyright 2020 Insolar Network Ltd.
// All rights reserved.
// This material is licensed under the Insolar License version 1.0,
// available at https://github.com/insolar/settlement-replay/blob/master/LICENSE.md.

package main

import (
	"fmt"
	"io/ioutil"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	yaml "gopkg.in/yaml.v2"

	"github.com/insolar/settlement-replay/configuration"
)

func main() {
	for filePath, cfg := range configuration.Configurations() {
		out, _ := yaml.Marshal(cfg)
		err := ioutil.WriteFile(filePath, out, 0644)
		if err != nil {
			logrus.Error(errors.Wrapf(err, "failed to write config file"))
			return
		}
		fmt.Println(filePath)
	}
}
