package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (suite *ErrorTestSuite) TestNewError() {
	err := New(ErrCodeInvalidParameter, "count must be positive")
	suite.Equal(ErrCodeInvalidParameter, err.Code)
	suite.Equal("count must be positive", err.Message)
	suite.Nil(err.Cause)
	suite.Equal("[100] count must be positive", err.Error())
}

func (suite *ErrorTestSuite) TestNewfError() {
	err := Newf(ErrCodeUnknownPair, "unknown pair %s", "XRP/USDT")
	suite.Equal("unknown pair XRP/USDT", err.Message)
	suite.Equal(ErrCodeUnknownPair, GetCode(err))
}

func (suite *ErrorTestSuite) TestWrapError() {
	cause := errors.New("open config.yaml: no such file")
	err := Wrap(ErrCodeInvalidConfiguration, "failed to read config", cause)
	suite.Equal(cause, err.Unwrap())
	suite.Equal("[101] failed to read config: open config.yaml: no such file", err.Error())
}

func (suite *ErrorTestSuite) TestWrapfError() {
	cause := errors.New("boom")
	err := Wrapf(ErrCodeEmptySeries, cause, "series %s is empty", "BTC/USDT@1m")
	suite.Equal("series BTC/USDT@1m is empty", err.Message)
	suite.True(Is(err, cause))
}

func (suite *ErrorTestSuite) TestGetCodeThroughFmtWrap() {
	inner := New(ErrCodeEmptySeries, "empty")
	wrapped := fmt.Errorf("tick candles: %w", inner)

	suite.Equal(ErrCodeEmptySeries, GetCode(wrapped))
	suite.True(HasCode(wrapped, ErrCodeEmptySeries))

	var target *Error
	suite.True(As(wrapped, &target))
	suite.Equal(inner, target)
}

func (suite *ErrorTestSuite) TestGetCodeForPlainError() {
	suite.Equal(ErrCodeUnknown, GetCode(errors.New("plain")))
	suite.False(HasCode(nil, ErrCodeInvalidParameter))
}

func (suite *ErrorTestSuite) TestHTTPStatus() {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "validation", err: New(ErrCodeInvalidTimeframe, "bad"), expected: http.StatusBadRequest},
		{name: "unknown pair", err: New(ErrCodeUnknownPair, "bad"), expected: http.StatusBadRequest},
		{name: "not found", err: New(ErrCodeDataNotFound, "missing"), expected: http.StatusNotFound},
		{name: "empty series", err: New(ErrCodeEmptySeries, "empty"), expected: http.StatusInternalServerError},
		{name: "plain", err: errors.New("plain"), expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.Equal(tt.expected, HTTPStatus(tt.err))
		})
	}
}
