// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerConfig contains logger configuration
type LoggerConfig struct {
	Level  string // debug, info, warn, error
	Format string // json or console
}

// NewLogger creates a zap logger writing to w (stderr when nil)
func NewLogger(config LoggerConfig, w io.Writer) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if config.Level != "" {
		parsed, err := zapcore.ParseLevel(config.Level)
		if err != nil {
			return nil, err
		}
		level = parsed
	}

	var encoderConfig zapcore.EncoderConfig
	var encoder zapcore.Encoder
	if config.Format == "json" {
		encoderConfig = zap.NewProductionEncoderConfig()
		encoderConfig.TimeKey = "timestamp"
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	if w == nil {
		w = os.Stderr
	}
	core := zapcore.NewCore(encoder, zapcore.AddSync(w), level)

	return zap.New(core, zap.AddStacktrace(zapcore.ErrorLevel)), nil
}
