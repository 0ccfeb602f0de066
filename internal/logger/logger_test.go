package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	if err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerInvalidLevelDefaultsToInfo(t *testing.T) {
	log := NewLogger("not-a-level", "development")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestNewLoggerParsesLevel(t *testing.T) {
	log := NewLogger("debug", "development")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
}

func TestNewLoggerFormatterFollowsEnvironment(t *testing.T) {
	prod := NewLogger("info", "production")
	assert.IsType(t, &logrus.JSONFormatter{}, prod.Formatter)

	dev := NewLogger("info", "development")
	assert.IsType(t, &logrus.TextFormatter{}, dev.Formatter)
}

func TestEvalLoggerSingleEvaluation(t *testing.T) {
	log, buf := setupTestLogger()
	evalLogger := NewEvalLogger(log)

	evalLogger.LogSingleEvaluation("J. Chase OVER 85.5 wr_rec_yards vs PIT", "prop", 50, 95.45, 0.5834, 5.69)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "evaluation", logEntry["component"])
	assert.Equal(t, "prop", logEntry["market"])
	assert.Equal(t, 0.5834, logEntry["probability"])
}

func TestEvalLoggerParlayEvaluation(t *testing.T) {
	log, buf := setupTestLogger()
	evalLogger := NewEvalLogger(log)

	evalLogger.LogParlayEvaluation(2, 25, 0.20, 3.64, -6.8)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, float64(2), logEntry["legs"])
	assert.Equal(t, 0.20, logEntry["combined_probability"])
}

func TestEvalLoggerDegradation(t *testing.T) {
	log, buf := setupTestLogger()
	evalLogger := NewEvalLogger(log)

	evalLogger.LogDegradation("Unknown Player OVER 50.5", "player profile unavailable")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "player profile unavailable", logEntry["reason"])
}

func TestEvalLoggerResolutionMiss(t *testing.T) {
	log, buf := setupTestLogger()
	evalLogger := NewEvalLogger(log)

	evalLogger.LogResolutionMiss("team", "Narnia Lions", 42)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "team", logEntry["kind"])
	assert.Equal(t, float64(42), logEntry["best_score"])
}
