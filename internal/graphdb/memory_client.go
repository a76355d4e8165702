package graphdb

import (
	"context"
	"sync"
)

// MemoryClient replays canned results and records executed queries. It is
// used in tests in place of a live database.
type MemoryClient struct {
	mu           sync.Mutex
	writeCalls   []ExecutedQuery
	readCalls    []ExecutedQuery
	readResults  []Result
	err          error
	connectivity error
	txFailAt     int
	txErr        error
}

type ExecutedQuery struct {
	Query  string
	Params map[string]any
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{}
}

// WithError makes every subsequent call fail with err.
func (m *MemoryClient) WithError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

func (m *MemoryClient) WithConnectivityError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectivity = err
	return m
}

// WithTxFailure makes the statement at index fail inside ExecuteWriteTx. The
// transaction is then rolled back and nothing is recorded.
func (m *MemoryClient) WithTxFailure(index int, err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txFailAt = index
	m.txErr = err
	return m
}

// PushReadResult queues res for the next ExecuteRead call.
func (m *MemoryClient) PushReadResult(res Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readResults = append(m.readResults, res)
}

// ExecuteWriteTx records the statements as committed writes only when all of
// them succeed.
func (m *MemoryClient) ExecuteWriteTx(_ context.Context, stmts []Statement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}

	staged := make([]ExecutedQuery, 0, len(stmts))
	for i, st := range stmts {
		if m.txErr != nil && i == m.txFailAt {
			return m.txErr
		}
		staged = append(staged, ExecutedQuery{Query: st.Cypher, Params: st.Params})
	}
	m.writeCalls = append(m.writeCalls, staged...)
	return nil
}

func (m *MemoryClient) ExecuteRead(_ context.Context, cypher string, params map[string]any) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return Result{}, m.err
	}
	m.readCalls = append(m.readCalls, ExecutedQuery{Query: cypher, Params: params})

	if len(m.readResults) == 0 {
		return Result{}, nil
	}
	res := m.readResults[0]
	m.readResults = m.readResults[1:]
	return res, nil
}

func (m *MemoryClient) VerifyConnectivity(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connectivity
}

func (m *MemoryClient) Close(context.Context) error { return nil }

func (m *MemoryClient) WriteCalls() []ExecutedQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ExecutedQuery(nil), m.writeCalls...)
}

func (m *MemoryClient) ReadCalls() []ExecutedQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ExecutedQuery(nil), m.readCalls...)
}
