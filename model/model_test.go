package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateUUIDWithPrefix(t *testing.T) {
	id := GenerateUUIDWithPrefix("pay")
	assert.True(t, strings.HasPrefix(id, "pay_"))
	assert.NotEqual(t, id, GenerateUUIDWithPrefix("pay"))
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "local zero prefixed", input: "0712345678", want: "254712345678"},
		{name: "bare subscriber number", input: "712345678", want: "254712345678"},
		{name: "already canonical", input: "254712345678", want: "254712345678"},
		{name: "plus prefixed", input: "+254712345678", want: "254712345678"},
		{name: "airtel style 1 prefix", input: "0110123456", want: "254110123456"},
		{name: "surrounding whitespace", input: " 0712345678 ", want: "254712345678"},
		{name: "too short", input: "07123", wantErr: true},
		{name: "too long", input: "25471234567890", wantErr: true},
		{name: "letters", input: "07abc45678", wantErr: true},
		{name: "landline prefix", input: "0212345678", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhone(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, 12)
		})
	}
}
