package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	// Test case 1: Standard date/time values
	cursor := Cursor{
		DocumentDate: time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC),
		CreatedAt:    time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC),
		ID:           "inv-1",
	}

	token := EncodeToken(cursor)
	assert.NotEmpty(t, token, "Token should not be empty")

	decoded, err := DecodeToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, cursor, decoded, "Cursor should match after decode")

	// Test case 2: Zero time values
	zeroToken := EncodeToken(Cursor{})
	decodedZero, err := DecodeToken(zeroToken)
	assert.NoError(t, err, "Decoding zero time should not return an error")
	assert.Equal(t, Cursor{}, decodedZero, "Zero cursor should match after decode")

	// Test case 3: Current time values
	now := time.Now().UTC()
	decodedNow, err := DecodeToken(EncodeToken(Cursor{DocumentDate: now, CreatedAt: now, ID: "x"}))
	assert.NoError(t, err, "Decoding current time should not return an error")
	assert.True(t, now.Equal(decodedNow.DocumentDate), "Current date should match after decode")
	assert.True(t, now.Equal(decodedNow.CreatedAt), "Current time should match after decode")
}

func TestDecodeTokenError(t *testing.T) {
	// Test invalid base64
	_, err := DecodeToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode", "Error should mention base64 decoding")

	// Test invalid format (missing separator)
	invalidToken := base64.StdEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z"))
	_, err = DecodeToken(invalidToken)
	assert.Error(t, err, "Should return an error for invalid token format")
	assert.Contains(t, err.Error(), "split", "Error should mention splitting issue")

	// Test invalid date format
	invalidDateToken := base64.StdEncoding.EncodeToString([]byte("notadate|2023-05-15T14:30:45.123456789Z|id"))
	_, err = DecodeToken(invalidDateToken)
	assert.Error(t, err, "Should return an error for invalid date format")
	assert.Contains(t, err.Error(), "document date parse", "Error should mention date parsing issue")
}

func TestCursorAfter(t *testing.T) {
	day := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	created := day.Add(time.Hour)
	cur := Cursor{DocumentDate: day, CreatedAt: created, ID: "m"}

	assert.True(t, cur.After(Cursor{DocumentDate: day.AddDate(0, 0, -1), CreatedAt: created, ID: "z"}))
	assert.False(t, cur.After(Cursor{DocumentDate: day.AddDate(0, 0, 1), CreatedAt: created, ID: "a"}))
	assert.True(t, cur.After(Cursor{DocumentDate: day, CreatedAt: created.Add(-time.Minute), ID: "z"}))
	assert.True(t, cur.After(Cursor{DocumentDate: day, CreatedAt: created, ID: "a"}))
	assert.False(t, cur.After(cur))
}

func TestNextToken(t *testing.T) {
	assert.Nil(t, NextToken(3, 5, Cursor{}))
	token := NextToken(5, 5, Cursor{ID: "last"})
	if assert.NotNil(t, token) {
		decoded, err := DecodeToken(*token)
		assert.NoError(t, err)
		assert.Equal(t, "last", decoded.ID)
	}
}
