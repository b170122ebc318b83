// Copyright 2020 Insolar Network Ltd.
// All rights reserved.
// This material is licensed under the Insolar License version 1.0,
// available at https://github.com/insolar/settlement-replay/blob/master/LICENSE.md.

package postgres

import (
	"context"

	"github.com/go-pg/pg/orm"
	"github.com/sirupsen/logrus"
)

type DBMock struct {
	orm.DB
	model func(model ...interface{}) *orm.Query
	query func(model, query interface{}, params ...interface{}) (orm.Result, error)
}

// NewDBMock answers every Query with query.
func NewDBMock(query func(model, query interface{}, params ...interface{}) (orm.Result, error)) *DBMock {
	db := &DBMock{query: query}
	db.model = func(model ...interface{}) *orm.Query {
		return orm.NewQuery(db, model...)
	}
	return db
}

func (m *DBMock) Model(model ...interface{}) *orm.Query {
	return m.model(model...)
}

func (m *DBMock) Query(model, query interface{}, params ...interface{}) (orm.Result, error) {
	return m.query(model, query, params...)
}

func (m *DBMock) QueryContext(_ context.Context, model, query interface{}, params ...interface{}) (orm.Result, error) {
	return m.Query(model, query, params...)
}

type resultMock struct {
	orm.Result
	log      *logrus.Logger
	affected int
	model    []interface{}
}

func MakeResult(log *logrus.Logger, affected int, model ...interface{}) orm.Result {
	return &resultMock{log: log, affected: affected, model: model}
}

func (m *resultMock) Model() orm.Model {
	model, err := orm.NewModel(m.model...)
	if err != nil {
		m.log.Info(err)
		return nil
	}
	return model
}

func (m *resultMock) RowsReturned() int {
	return len(m.model)
}

func (m *resultMock) RowsAffected() int {
	return m.affected
}
