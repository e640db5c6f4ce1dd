// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package platform

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tizenYAML = `
userAgent: "Mozilla/5.0 (SMART-TV; LINUX; Tizen 5.5) AppleWebKit/537.36 (KHTML, like Gecko) 69.0.3497.106.1/5.5 TV Safari/537.36"
globals: [tizen, webapis]
mediaSource: true
canPlayType:
  'video/mp4; codecs="avc1.42E01E, mp4a.40.2"': probably
productInfo:
  udPanel: false
`

func TestDecodeReport_YAML(t *testing.T) {
	rep, err := DecodeReport(strings.NewReader(tizenYAML), "yaml")
	require.NoError(t, err)

	assert.Contains(t, rep.UserAgent, "Tizen 5.5")
	assert.Equal(t, []string{"tizen", "webapis"}, rep.Globals)
	assert.True(t, rep.MediaSource)
	require.NotNil(t, rep.ProductInfo)
	assert.False(t, rep.ProductInfo.UdPanel)
}

func TestDecodeReport_JSON(t *testing.T) {
	body := `{"userAgent":"Mozilla/5.0 Chrome/120","mediaSource":true,"canPlayType":{"audio/mpeg":"maybe"}}`
	rep, err := DecodeReport(strings.NewReader(body), "json")
	require.NoError(t, err)
	assert.Equal(t, "maybe", rep.CanPlayType["audio/mpeg"])
}

func TestDecodeReport_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		format string
	}{
		{name: "unknown yaml field", body: "userAgent: x\nbogus: 1\n", format: "yaml"},
		{name: "unknown json field", body: `{"userAgent":"x","bogus":1}`, format: "json"},
		{name: "empty yaml", body: "", format: "yaml"},
		{name: "unknown platform hint", body: "platform: roku\nuserAgent: x\n", format: "yaml"},
		{name: "browser hint with tizen user agent", body: "platform: browser\nuserAgent: Mozilla/5.0 (SMART-TV; Tizen 5.5)\n", format: "yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeReport(strings.NewReader(tt.body), tt.format)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidReport), "got %v", err)
		})
	}
}

func TestFromReport_SelectsAdapter(t *testing.T) {
	tests := []struct {
		name     string
		report   Report
		wantType string
	}{
		{name: "tizen user agent", report: Report{UserAgent: "Mozilla/5.0 (SMART-TV; Tizen 4.0)"}, wantType: "tizen"},
		{name: "tizen global", report: Report{UserAgent: "Mozilla/5.0", Globals: []string{"tizen"}}, wantType: "tizen"},
		{name: "explicit browser hint", report: Report{Platform: "browser", UserAgent: "Mozilla/5.0 Chrome/120", Globals: []string{"tizen"}}, wantType: "browser"},
		{name: "explicit tizen hint", report: Report{Platform: "tizen", UserAgent: "Mozilla/5.0"}, wantType: "tizen"},
		{name: "generic browser", report: Report{UserAgent: "Mozilla/5.0 Chrome/120"}, wantType: "browser"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := FromReport(tt.report)
			switch tt.wantType {
			case "tizen":
				assert.IsType(t, &Tizen{}, a)
			default:
				assert.IsType(t, &Browser{}, a)
			}
		})
	}
}

func TestReportElement_NormalizesSpacing(t *testing.T) {
	a := NewBrowser(Report{CanPlayType: map[string]string{
		`video/mp4;codecs="avc1.42E01E,mp4a.40.2"`: "probably",
	}})
	el, err := a.NewMediaElement()
	require.NoError(t, err)

	got, err := el.CanPlayType(`video/mp4; codecs="avc1.42E01E, mp4a.40.2"`)
	require.NoError(t, err)
	assert.Equal(t, "probably", got)

	got, err = el.CanPlayType(`video/webm; codecs="vp9"`)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReportElement_CreationError(t *testing.T) {
	a := NewTizen(Report{MediaElementError: "no video element"})
	_, err := a.NewMediaElement()
	require.Error(t, err)
}

func TestTizen_ProductInfo(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		_, err := NewTizen(Report{}).ProductInfo()
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("throws", func(t *testing.T) {
		pi, err := NewTizen(Report{ProductInfo: &ProductInfoReport{Error: "SecurityError"}}).ProductInfo()
		require.NoError(t, err)
		_, err = pi.IsUdPanelSupported()
		assert.EqualError(t, err, "SecurityError")
	})

	t.Run("ud panel", func(t *testing.T) {
		pi, err := NewTizen(Report{ProductInfo: &ProductInfoReport{UdPanel: true}}).ProductInfo()
		require.NoError(t, err)
		ud, err := pi.IsUdPanelSupported()
		require.NoError(t, err)
		assert.True(t, ud)
	})

	t.Run("global always present", func(t *testing.T) {
		assert.True(t, NewTizen(Report{}).HasGlobal("tizen"))
		assert.False(t, NewBrowser(Report{Globals: []string{"tizen"}}).HasGlobal("tizen"))
	})
}
