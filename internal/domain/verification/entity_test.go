package verification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"", KindText, false},
		{"text", KindText, false},
		{" URL ", KindURL, false},
		{"image", "", true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidKind, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestVerdictValidate(t *testing.T) {
	assert.NoError(t, Verdict{Status: StatusUncertain, Confidence: 0}.Validate())
	assert.NoError(t, Verdict{Status: StatusAuthentic, Confidence: 100}.Validate())
	assert.ErrorIs(t, Verdict{Status: "maybe", Confidence: 70}.Validate(), ErrInvalidVerdict)
	assert.ErrorIs(t, Verdict{Status: StatusFabricated, Confidence: 101}.Validate(), ErrInvalidVerdict)
	assert.ErrorIs(t, Verdict{Status: StatusFabricated, Confidence: -1}.Validate(), ErrInvalidVerdict)
}

func TestNewRecord_URLContentIsLabelled(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	v := Verdict{Status: StatusFabricated, Confidence: 77, Sources: []string{"a"}, Analysis: "x"}

	rec := NewRecord("id-1", "web", Request{Kind: KindURL, Content: "https://example.com/a"}, v, at)
	assert.Equal(t, "Content from: https://example.com/a", rec.Content)
	assert.Equal(t, at, rec.Timestamp)

	rec = NewRecord("id-2", "web", Request{Kind: KindText, Content: "Breaking: sky turns green"}, v, at)
	assert.Equal(t, "Breaking: sky turns green", rec.Content)
}

func TestNewRecord_DoesNotShareSources(t *testing.T) {
	v := Verdict{Status: StatusAuthentic, Confidence: 90, Sources: []string{"a", "b"}}
	rec := NewRecord("id", "t", Request{Kind: KindText, Content: "c"}, v, time.Now())
	v.Sources[0] = "changed"
	assert.Equal(t, "a", rec.Sources[0])

	cp := rec.Clone()
	cp.Sources[1] = "changed"
	assert.Equal(t, "b", rec.Sources[1])
}

func TestNormalizePage(t *testing.T) {
	p, s := NormalizePage(0, 0)
	assert.Equal(t, 1, p)
	assert.Equal(t, DefaultPageSize, s)

	p, s = NormalizePage(3, 500)
	assert.Equal(t, 3, p)
	assert.Equal(t, MaxPageSize, s)

	assert.Equal(t, 0, TotalPages(0, 20))
	assert.Equal(t, 1, TotalPages(20, 20))
	assert.Equal(t, 2, TotalPages(21, 20))
}
