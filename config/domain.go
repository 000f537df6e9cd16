package config

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/tomiamao/uap/bss"
	"github.com/tomiamao/uap/validate"
)

// ErrNoCountry is returned when a domain file has no block for the
// requested country.
var ErrNoCountry = errors.New("country not found")

// ParseDomainFile reads the 802.11d table for country from a domain file.
func ParseDomainFile(path, country string) (*bss.Domain, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseDomain(f, country)
}

// ParseDomain reads the 802.11d table for country from r. The file holds
// one block per country:
//
//	US {
//		sub_band = 1,11,20
//		sub_band = 36,4,17
//	}
func ParseDomain(r io.Reader, country string) (*bss.Domain, error) {
	country = strings.ToUpper(country)

	var (
		d     *bss.Domain
		block string
		start int
		line  int
	)

	s := bufio.NewScanner(r)
	for s.Scan() {
		line++

		toks := tokenize(s.Text())
		if len(toks) == 0 {
			continue
		}
		key := toks[0].s

		switch {
		case key == "}" && len(toks) == 1:
			if block == "" {
				return nil, fieldErr(key, line, errors.Wrap(ErrSyntax, "'}' outside a block"))
			}
			block = ""
			continue
		case len(toks) == 2 && toks[1].s == "{" && !toks[1].quoted:
			if block != "" {
				return nil, fieldErr(key, line, errors.Wrapf(ErrSyntax, "block inside %s", block))
			}
			block, start = strings.ToUpper(key), line
			if block == country {
				if d != nil {
					return nil, fieldErr(key, line, &validate.Error{Kind: validate.ErrDuplicateEntry, Field: "country", Detail: key})
				}
				d = &bss.Domain{Country: block}
			}
			continue
		}

		if block == "" {
			return nil, fieldErr(key, line, errors.Wrap(ErrSyntax, "sub_band outside a country block"))
		}
		if block != country {
			continue
		}
		if key != "sub_band" {
			return nil, fieldErr(key, line, ErrUnknownKey)
		}

		sb, err := subBand(toks[1:])
		if err != nil {
			return nil, fieldErr(key, line, err)
		}
		d.SubBands = append(d.SubBands, sb)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}

	if block != "" {
		return nil, fieldErr(block, start, ErrUnterminatedBlock)
	}
	if d == nil {
		return nil, errors.Wrap(ErrNoCountry, country)
	}
	if err := d.Validate(); err != nil {
		return nil, fieldErr(country, line, err)
	}
	return d, nil
}

func subBand(args []token) (bss.SubBand, error) {
	v, err := ints(args)
	if err != nil {
		return bss.SubBand{}, err
	}
	if len(v) != 3 {
		return bss.SubBand{}, errors.Wrap(ErrSyntax, "want first_channel,num_channels,max_tx_power")
	}
	if err := validate.CheckRange("first_channel", v[0], 1, validate.MaxChannels); err != nil {
		return bss.SubBand{}, err
	}
	if err := validate.CheckRange("num_channels", v[1], 1, validate.MaxChannels); err != nil {
		return bss.SubBand{}, err
	}
	if err := validate.CheckRange("max_tx_power", v[2], 0, 0xff); err != nil {
		return bss.SubBand{}, err
	}
	return bss.SubBand{FirstChannel: uint8(v[0]), NumChannels: uint8(v[1]), MaxTxPower: uint8(v[2])}, nil
}
