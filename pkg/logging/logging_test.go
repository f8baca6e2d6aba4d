package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestInit(t *testing.T) {
	defer logrus.SetLevel(logrus.InfoLevel)

	Init(true)
	assert.True(t, IsDebugEnabled())

	Init(false)
	assert.False(t, IsDebugEnabled())
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
}
