package apiclient

import (
	"net/url"
	"strings"
)

// Form codifica application/x-www-form-urlencoded respetando el orden de Add.
type Form struct {
	fields [][2]string
}

func (f *Form) Add(key, value string) *Form {
	f.fields = append(f.fields, [2]string{key, value})
	return f
}

func (f *Form) Encode() string {
	var b strings.Builder
	for i, kv := range f.fields {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(kv[0]))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(kv[1]))
	}
	return b.String()
}
