package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCustomIDFormat(t *testing.T) {
	id := GenerateCustomID("CERT")

	parts := strings.Split(id, "-")
	require.Len(t, parts, 3)

	assert.Equal(t, "CERT", parts[0])
	assert.Len(t, parts[1], 12)
	_, err := time.ParseInLocation("200601021504", parts[1], WIB)
	assert.NoError(t, err)

	assert.Len(t, parts[2], 6)
	assert.Equal(t, strings.ToUpper(parts[2]), parts[2])
}

func TestGenerateCustomIDDistinct(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateCustomID("REG")
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestGenerateUniqueNumber(t *testing.T) {
	number, err := GenerateUniqueNumber(func(string) (bool, error) {
		return false, nil
	})
	require.NoError(t, err)

	assert.Len(t, number, 10)
	assert.Equal(t, time.Now().In(WIB).Format("0601"), number[:4])
	for _, r := range number {
		assert.Contains(t, numberCharset, string(r))
	}
}

func TestGenerateUniqueNumberRetriesTaken(t *testing.T) {
	calls := 0
	number, err := GenerateUniqueNumber(func(string) (bool, error) {
		calls++
		return calls <= 3, nil
	})
	require.NoError(t, err)
	assert.NotEmpty(t, number)
	assert.Equal(t, 4, calls)
}

func TestGenerateUniqueNumberExhausted(t *testing.T) {
	calls := 0
	number, err := GenerateUniqueNumber(func(string) (bool, error) {
		calls++
		return true, nil
	})

	assert.ErrorIs(t, err, ErrGenerationExhausted)
	assert.Empty(t, number)
	assert.Equal(t, maxNumberAttempts, calls)
}

func TestGenerateUniqueNumberConcurrentDistinct(t *testing.T) {
	const workers = 32

	results := make(chan string, workers)
	for i := 0; i < workers; i++ {
		go func() {
			number, err := GenerateUniqueNumber(func(string) (bool, error) {
				return false, nil
			})
			assert.NoError(t, err)
			results <- number
		}()
	}

	seen := make(map[string]bool)
	for i := 0; i < workers; i++ {
		number := <-results
		assert.False(t, seen[number], "duplicate number %s", number)
		seen[number] = true
	}
}

func TestGenerateUniqueNumberPropagatesError(t *testing.T) {
	wantErr := assert.AnError
	_, err := GenerateUniqueNumber(func(string) (bool, error) {
		return false, wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}
