package normalizer

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
)

const (
	DefaultDateFormat = "%d.%m.%Y"
	VerboseDateFormat = "%d %B %Y"
)

type monthNames struct {
	full  [12]string
	short [12]string
}

var (
	supportedLanguages = []language.Tag{language.Russian, language.English}
	languageMatcher    = language.NewMatcher(supportedLanguages)

	// 俄语日期中的月份用属格
	months = []monthNames{
		{
			full:  [12]string{"января", "февраля", "марта", "апреля", "мая", "июня", "июля", "августа", "сентября", "октября", "ноября", "декабря"},
			short: [12]string{"янв", "фев", "мар", "апр", "мая", "июн", "июл", "авг", "сен", "окт", "ноя", "дек"},
		},
		{
			full:  [12]string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"},
			short: [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
		},
	}
)

var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ConvertDate 把 ISO-8601 时间按 strftime 风格的格式输出; 空值与无法解析的输入返回 nil
func ConvertDate(raw *string, pattern string, lang language.Tag) *string {
	if raw == nil {
		return nil
	}
	t, ok := parseISO(*raw)
	if !ok {
		return nil
	}
	if pattern == "" {
		pattern = DefaultDateFormat
	}
	out := Strftime(t, pattern, lang)
	return &out
}

func parseISO(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	if trimmed, ok := strings.CutSuffix(s, "Z"); ok {
		s = trimmed
	} else if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Strftime 支持 %d %m %Y %y %H %M %S %B %b %%, 其他序列原样输出
func Strftime(t time.Time, pattern string, lang language.Tag) string {
	_, idx, _ := languageMatcher.Match(lang)
	names := months[idx]

	var b strings.Builder
	b.Grow(len(pattern) + 8)
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != '%' || i == len(pattern)-1 {
			b.WriteByte(pattern[i])
			continue
		}
		i++
		switch pattern[i] {
		case 'd':
			pad2(&b, t.Day())
		case 'm':
			pad2(&b, int(t.Month()))
		case 'Y':
			b.WriteString(strconv.Itoa(t.Year()))
		case 'y':
			pad2(&b, t.Year()%100)
		case 'H':
			pad2(&b, t.Hour())
		case 'M':
			pad2(&b, t.Minute())
		case 'S':
			pad2(&b, t.Second())
		case 'B':
			b.WriteString(names.full[t.Month()-1])
		case 'b':
			b.WriteString(names.short[t.Month()-1])
		case '%':
			b.WriteByte('%')
		default:
			b.WriteByte('%')
			b.WriteByte(pattern[i])
		}
	}
	return b.String()
}

func pad2(b *strings.Builder, v int) {
	if v < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.Itoa(v))
}
