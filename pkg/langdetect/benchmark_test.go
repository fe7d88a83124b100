package langdetect

import (
	"strings"
	"testing"
)

func BenchmarkDetectProlog(b *testing.B) {
	content := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<catalog><book id="b1"><title>Go</title></book></catalog>`)
	b.ResetTimer()
	for range b.N {
		Detect("catalog.data", content)
	}
}

func BenchmarkDetectLarge(b *testing.B) {
	content := []byte("<root>" + strings.Repeat("<item>value</item>", 4096) + "</root>")
	b.ResetTimer()
	for range b.N {
		Detect("items.xml", content)
	}
}
