package lib

import "fmt"
import "bytes"
import "strings"
import "encoding/json"

// Parsecsv convert a string of comma seperated value into list of
// non-empty, trimmed, strings.
func Parsecsv(input string) []string {
	if input == "" {
		return nil
	}
	outs := make([]string, 0)
	for _, s := range strings.Split(input, ",") {
		if s = strings.Trim(s, " \t\r\n"); s != "" {
			outs = append(outs, s)
		}
	}
	return outs
}

// GetStacktrace return stack-trace in human readable format, skipping
// the first `skip` frames.
func GetStacktrace(skip int, stack []byte) string {
	var buf bytes.Buffer
	lines := strings.Split(string(stack), "\n")
	if skip*2 < len(lines) {
		lines = lines[skip*2:]
	}
	for _, call := range lines {
		buf.WriteString(fmt.Sprintf("%s\n", call))
	}
	return buf.String()
}

// Prettystats uses json.MarshalIndent, if pretty is true, instead of
// json.Marshal. If Marshal return error Prettystats will panic.
func Prettystats(stats map[string]interface{}, pretty bool) string {
	var data []byte
	var err error
	if pretty {
		data, err = json.MarshalIndent(stats, "", "  ")
	} else {
		data, err = json.Marshal(stats)
	}
	if err != nil {
		panic(err)
	}
	return string(data)
}

// Fillbytes set every byte in block to pattern.
func Fillbytes(block []byte, pattern byte) []byte {
	if len(block) == 0 {
		return block
	}
	block[0] = pattern
	for n := 1; n < len(block); n *= 2 {
		copy(block[n:], block[:n])
	}
	return block
}
