package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "0.00 MB", FormatFileSize(0))
	assert.Equal(t, "1.00 MB", FormatFileSize(1024*1024))
	assert.Equal(t, "2.50 MB", FormatFileSize(5*1024*1024/2))
}

func TestColorRGBRoundTrip(t *testing.T) {
	c := Color{R: 200, G: 10, B: 0, Theme: ThemeLight}
	r, g, b, ok := ParseRGB(c.RGB())
	assert.True(t, ok)
	assert.Equal(t, [3]uint8{200, 10, 0}, [3]uint8{r, g, b})
}

func TestParseRGBMalformed(t *testing.T) {
	for _, in := range []string{"", "1,2", "a,b,c", "1,2,300"} {
		r, g, b, ok := ParseRGB(in)
		assert.False(t, ok, in)
		assert.Equal(t, [3]uint8{17, 17, 17}, [3]uint8{r, g, b}, in)
	}
}

func TestDefaultCaptureHasNoBlankFields(t *testing.T) {
	c := DefaultCapture()
	for _, v := range []string{c.Make, c.Model, c.ISO, c.FNumber, c.ExposureTime, c.ExposureBias,
		c.FocalLength, c.Focal35mm, c.WhiteBalance, c.MeteringMode, c.Flash, c.Software, c.Timestamp} {
		assert.NotEmpty(t, v)
	}
	assert.Equal(t, UnknownTimestamp, c.Timestamp)
	assert.Nil(t, c.GPS)
}
