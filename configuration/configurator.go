// Copyright 2020 Insolar Network Ltd.
// All rights reserved.
// This material is licensed under the Insolar License version 1.0,
// available at https://github.com/insolar/settlement-replay/blob/master/LICENSE.md.

package configuration

import (
	"os"
	"reflect"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

const (
	ConfigName     = "replay"
	ConfigType     = "yaml"
	ConfigFilePath = ConfigName + "." + ConfigType
	EnvPrefix      = "replay"

	// SettlementChallengeTimeoutEnv is read without the REPLAY_ prefix.
	SettlementChallengeTimeoutEnv = "SETTLEMENT_CHALLENGE_TIMEOUT"
)

// Load reads replay.yaml from path, or from . and .artifacts when path is empty.
// Environment variables override file values.
func Load(log logrus.FieldLogger, path string) *Configuration {
	printWorkingDir(log)
	actual := load(log, path)
	printConfig(log, actual)
	return actual
}

func load(log logrus.FieldLogger, path string) *Configuration {
	v := viper.New()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix(EnvPrefix)
	setDefaults(v, "", reflect.ValueOf(*Default()))
	if err := v.BindEnv("replay.settlementchallengetimeout", SettlementChallengeTimeoutEnv); err != nil {
		log.Error(errors.Wrap(err, "failed to bind settlement challenge timeout env"))
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType(ConfigType)
		v.AddConfigPath(".")
		v.AddConfigPath(".artifacts")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Warnf("config file not found (file=%v). Default configuration is used", ConfigFilePath)
		} else {
			log.Error(errors.Wrapf(err, "failed to load config. Default configuration is used"))
		}
	}

	actual := &Configuration{}
	err := v.Unmarshal(actual)
	if err != nil {
		log.Error(errors.Wrapf(err, "failed to unmarshal readed from file config into configuration structure. Default configuration is used"))
		return Default()
	}

	return actual
}

// setDefaults registers every leaf of the default configuration so that
// environment overrides apply even without a config file.
func setDefaults(v *viper.Viper, prefix string, value reflect.Value) {
	t := value.Type()
	for i := 0; i < value.NumField(); i++ {
		key := strings.ToLower(t.Field(i).Name)
		if prefix != "" {
			key = prefix + "." + key
		}
		field := value.Field(i)
		if field.Kind() == reflect.Struct {
			setDefaults(v, key, field)
			continue
		}
		v.SetDefault(key, field.Interface())
	}
}

func printWorkingDir(log logrus.FieldLogger) {
	wd, _ := os.Getwd()
	log.Infof("Working dir: %s", wd)
}

func printConfig(log logrus.FieldLogger, c *Configuration) {
	out, err := yaml.Marshal(cleanSecrets(c))
	if err != nil {
		log.Error(errors.Wrapf(err, "failed to marshal config structure"))
		return
	}
	log.Infof("Loaded configuration: \n %s \n", string(out))
}

func cleanSecrets(c *Configuration) *Configuration {
	cc := *c
	cc.DB.URL = replacePassword(cc.DB.URL)
	return &cc
}

func replacePassword(url string) string {
	re := regexp.MustCompile(`^(?P<start>.*)(:(?P<pass>[^@\/:?]+)@)(?P<end>.*)$`)
	result := []byte{}
	if re.MatchString(url) {
		for _, submatches := range re.FindAllStringSubmatchIndex(url, -1) {
			result = re.ExpandString(result, `$start:<masked>@$end`, url, submatches)
		}
		return string(result)
	}
	return url
}
