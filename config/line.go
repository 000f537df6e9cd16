// Package config reads uAP configuration files.
//
// A file holds one directive per line, "Key = value[,value...]" or
// "Key value...". A '#' outside double quotes starts a comment. Related
// settings are grouped in blocks:
//
//	ap_config {
//		SSID = "Marvell Micro AP"
//		Channel = 6,0
//	}
package config

import "strings"

// A token is one value of a directive.
type token struct {
	s      string
	quoted bool
}

// ParseLine splits a line into tokens. Whitespace, '=' and ',' separate
// tokens; text inside double quotes is taken literally; a '#' outside
// quotes ends the line. A block name may touch its opening brace.
func ParseLine(line string) []string {
	toks := tokenize(line)
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.s
	}
	return out
}

func tokenize(line string) []token {
	var (
		toks   []token
		cur    strings.Builder
		inTok  bool
		quoted bool
		inQ    bool
	)

	flush := func() {
		if inTok {
			toks = append(toks, token{s: cur.String(), quoted: quoted})
		}
		cur.Reset()
		inTok, quoted = false, false
	}

	for i := 0; i < len(line); i++ {
		ch := line[i]
		if inQ {
			if ch == '"' {
				inQ = false
				continue
			}
			cur.WriteByte(ch)
			continue
		}

		switch ch {
		case '#':
			flush()
			return toks
		case '"':
			inQ, inTok, quoted = true, true, true
		case ' ', '\t', '\r', '\n', '=', ',':
			flush()
		default:
			inTok = true
			cur.WriteByte(ch)
		}
	}
	flush()

	// "name{" opens a block like "name {".
	if len(toks) == 1 && !toks[0].quoted && len(toks[0].s) > 1 && strings.HasSuffix(toks[0].s, "{") {
		toks = []token{{s: strings.TrimSuffix(toks[0].s, "{")}, {s: "{"}}
	}

	return toks
}
