package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func ptr(s string) *string { return &s }

func TestConvertDate(t *testing.T) {
	testCases := []struct {
		name    string
		raw     *string
		pattern string
		lang    language.Tag
		want    *string
	}{
		{name: "nil", raw: nil, pattern: DefaultDateFormat, want: nil},
		{name: "empty", raw: ptr(""), pattern: DefaultDateFormat, want: nil},
		{name: "blank", raw: ptr("   "), pattern: DefaultDateFormat, want: nil},
		{name: "garbage", raw: ptr("not a date"), pattern: DefaultDateFormat, want: nil},
		{name: "utc z", raw: ptr("2024-05-01T10:00:00Z"), pattern: "%d.%m.%Y", want: ptr("01.05.2024")},
		{name: "fraction z", raw: ptr("2024-12-31T23:59:59.123456Z"), pattern: "%d.%m.%Y %H:%M:%S", want: ptr("31.12.2024 23:59:59")},
		{name: "offset kept", raw: ptr("2024-05-01T01:30:00+03:00"), pattern: "%d.%m.%Y %H:%M", want: ptr("01.05.2024 01:30")},
		{name: "naive", raw: ptr("2024-05-01T10:00:00"), pattern: "%y-%m-%d", want: ptr("24-05-01")},
		{name: "date only", raw: ptr("2024-02-09"), pattern: "%d.%m.%Y", want: ptr("09.02.2024")},
		{name: "default pattern", raw: ptr("2024-05-01T10:00:00Z"), pattern: "", want: ptr("01.05.2024")},
		{name: "ru month", raw: ptr("2024-05-01T10:00:00Z"), pattern: VerboseDateFormat, lang: language.Russian, want: ptr("01 мая 2024")},
		{name: "en month", raw: ptr("2024-05-01T10:00:00Z"), pattern: VerboseDateFormat, lang: language.English, want: ptr("01 May 2024")},
		{name: "en region", raw: ptr("2024-03-15T10:00:00Z"), pattern: "%b %d", lang: language.BritishEnglish, want: ptr("Mar 15")},
		{name: "literal percent", raw: ptr("2024-05-01T10:00:00Z"), pattern: "%d%% %q", want: ptr("01% %q")},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ConvertDate(tc.raw, tc.pattern, tc.lang)
			if tc.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tc.want, *got)
		})
	}
}
