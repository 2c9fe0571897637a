// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shardnode/shardnode/utils/logging"
)

func TestAddRoute(t *testing.T) {
	require := require.New(t)

	s := New(logging.NoLog{}, "127.0.0.1", 0, time.Second)
	s.AddRoute(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pong"))
	}), "ping")

	tests := []struct {
		method         string
		path           string
		expectedStatus int
	}{
		{
			method:         http.MethodGet,
			path:           "/ext/ping",
			expectedStatus: http.StatusOK,
		},
		{
			method:         http.MethodPost,
			path:           "/ext/ping",
			expectedStatus: http.StatusOK,
		},
		{
			method:         http.MethodDelete,
			path:           "/ext/ping",
			expectedStatus: http.StatusMethodNotAllowed,
		},
		{
			method:         http.MethodGet,
			path:           "/ext/unknown",
			expectedStatus: http.StatusNotFound,
		},
	}
	for _, test := range tests {
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, httptest.NewRequest(test.method, test.path, nil))
		require.Equal(test.expectedStatus, w.Code, "%s %s", test.method, test.path)
	}
}

func TestDispatchAndShutdown(t *testing.T) {
	require := require.New(t)

	s := New(logging.NoLog{}, "127.0.0.1", 0, time.Second)
	s.AddRoute(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pong"))
	}), "ping")

	addr, err := s.Listen()
	require.NoError(err)

	_, err = s.Listen()
	require.ErrorIs(err, errAlreadyDispatched)

	dispatchErr := make(chan error, 1)
	go func() {
		dispatchErr <- s.Dispatch()
	}()

	resp, err := http.Get("http://" + addr.String() + "/ext/ping")
	require.NoError(err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(err)
	require.NoError(resp.Body.Close())
	require.Equal("pong", string(body))

	require.NoError(s.Shutdown(context.Background()))
	require.NoError(<-dispatchErr)
}

func TestShutdownBeforeListen(t *testing.T) {
	s := New(logging.NoLog{}, "127.0.0.1", 0, time.Second)
	require.NoError(t, s.Shutdown(context.Background()))
}
