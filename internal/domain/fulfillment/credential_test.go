package fulfillment

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCredentialValidation(t *testing.T) {
	_, err := NewCredential(uuid.Nil, uuid.New(), "CODE")
	assert.ErrorIs(t, err, ErrCredentialInvalidTenant)

	_, err = NewCredential(uuid.New(), uuid.Nil, "CODE")
	assert.ErrorIs(t, err, ErrCredentialInvalidProduct)

	_, err = NewCredential(uuid.New(), uuid.New(), "")
	assert.ErrorIs(t, err, ErrCredentialEmptyCode)
}

func TestGenerateCredential(t *testing.T) {
	c1, err := GenerateCredential(uuid.New(), uuid.New())
	require.NoError(t, err)
	c2, err := GenerateCredential(uuid.New(), uuid.New())
	require.NoError(t, err)

	assert.Len(t, c1.Code, generatedCodeBytes*2)
	assert.NotEqual(t, c1.Code, c2.Code)
	assert.False(t, c1.Used)
}

func TestMarkUsedIsOneWay(t *testing.T) {
	c, err := NewCredential(uuid.New(), uuid.New(), "STEAM-KEY-1")
	require.NoError(t, err)

	recordID := uuid.New()
	require.NoError(t, c.MarkUsed(recordID))
	assert.True(t, c.Used)
	require.NotNil(t, c.UsedAt)
	require.NotNil(t, c.OrderRecordID)
	assert.Equal(t, recordID, *c.OrderRecordID)

	assert.ErrorIs(t, c.MarkUsed(uuid.New()), ErrCredentialAlreadyUsed)
	assert.Equal(t, recordID, *c.OrderRecordID, "second use must not rebind the credential")
}
