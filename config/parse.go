package config

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/tomiamao/uap/bss"
	"github.com/tomiamao/uap/validate"
	"k8s.io/klog/v2"
)

const (
	blockAPConfig  = "ap_config"
	blockMACFilter = "ap_mac_filter"
)

// ParseFile reads an AP configuration file.
func ParseFile(path string) (*bss.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads an AP configuration from r. Any invalid field aborts the
// whole parse.
func Parse(r io.Reader) (*bss.Config, error) {
	p := &parser{b: bss.NewBuilder(), keyIndex: -1}
	if err := p.run(r); err != nil {
		return nil, err
	}
	if err := p.applyKeyIndex(); err != nil {
		return nil, err
	}

	c, err := p.b.Build()
	if err != nil {
		return nil, fieldErr(fieldOf(err), p.line, err)
	}
	return c, nil
}

type parser struct {
	b     *bss.Builder
	line  int
	block string
	start int

	// Deferred to the close of ap_config.
	keyIndex int

	// Collected until the close of ap_mac_filter.
	filterMode  int64
	filterCount int64
	filterMACs  []string
	sawCount    bool
}

func (p *parser) run(r io.Reader) error {
	s := bufio.NewScanner(r)
	for s.Scan() {
		p.line++

		toks := tokenize(s.Text())
		if len(toks) == 0 {
			continue
		}

		if err := p.directive(toks); err != nil {
			return err
		}
	}
	if err := s.Err(); err != nil {
		return err
	}

	if p.block != "" {
		return fieldErr(p.block, p.start, ErrUnterminatedBlock)
	}
	return nil
}

func (p *parser) directive(toks []token) error {
	key := toks[0].s

	switch {
	case key == "}" && len(toks) == 1:
		if p.block == "" {
			return fieldErr(key, p.line, errors.Wrap(ErrSyntax, "'}' outside a block"))
		}
		return p.closeBlock()
	case len(toks) == 2 && toks[1].s == "{" && !toks[1].quoted:
		if p.block != "" {
			return fieldErr(key, p.line, errors.Wrapf(ErrSyntax, "block inside %s", p.block))
		}
		return p.openBlock(key)
	}

	args := toks[1:]
	if len(args) == 0 {
		return fieldErr(key, p.line, errors.Wrap(ErrSyntax, "missing value"))
	}

	var err error
	switch p.block {
	case blockMACFilter:
		err = p.filterKey(key, args)
	default:
		// Keys outside any block configure the AP.
		err = p.apKey(key, args)
	}
	if err != nil {
		return fieldErr(key, p.line, err)
	}
	return nil
}

func (p *parser) openBlock(name string) error {
	switch name {
	case blockAPConfig, blockMACFilter:
	default:
		return fieldErr(name, p.line, errors.Wrap(ErrUnknownKey, "unknown block"))
	}

	klog.V(4).Infof("config: line %d: entering %s", p.line, name)
	p.block = name
	p.start = p.line
	if name == blockMACFilter {
		p.filterMode, p.filterCount, p.filterMACs, p.sawCount = 0, 0, nil, false
	}
	return nil
}

func (p *parser) closeBlock() error {
	name := p.block
	p.block = ""

	switch name {
	case blockAPConfig:
		if err := p.applyKeyIndex(); err != nil {
			return err
		}
		if _, err := p.b.Build(); err != nil {
			return fieldErr(fieldOf(err), p.line, err)
		}
	case blockMACFilter:
		return p.closeFilter()
	}

	return nil
}

func (p *parser) applyKeyIndex() error {
	if p.keyIndex < 0 {
		return nil
	}
	if err := p.b.SetDefaultWEPKey(p.keyIndex); err != nil {
		return fieldErr("KeyIndex", p.line, err)
	}
	return nil
}

func (p *parser) closeFilter() error {
	if p.sawCount {
		if err := validate.CheckCount("Count", int(p.filterCount), len(p.filterMACs)); err != nil {
			return fieldErr("Count", p.line, err)
		}
	}

	f := &bss.MACFilter{Mode: bss.FilterMode(p.filterMode)}
	for _, s := range p.filterMACs {
		mac, err := validate.ParseMAC(s)
		if err != nil {
			return fieldErr("mac", p.line, err)
		}
		f.Entries = append(f.Entries, mac)
	}

	if err := p.b.SetFilter(f); err != nil {
		return fieldErr(fieldOf(err), p.line, err)
	}
	return nil
}

func (p *parser) filterKey(key string, args []token) error {
	switch {
	case key == "FilterMode":
		v, err := oneInt(args)
		if err != nil {
			return err
		}
		if err := validate.CheckRange(key, v, int64(bss.FilterDisabled), int64(bss.FilterBlock)); err != nil {
			return err
		}
		p.filterMode = v
	case key == "Count":
		v, err := oneInt(args)
		if err != nil {
			return err
		}
		if err := validate.CheckRange(key, v, 0, validate.MaxMACFilter); err != nil {
			return err
		}
		p.filterCount, p.sawCount = v, true
	case strings.HasPrefix(key, "mac_"):
		if len(args) != 1 {
			return errors.Wrap(ErrSyntax, "want one MAC address")
		}
		if len(p.filterMACs) == validate.MaxMACFilter {
			return &validate.Error{Kind: validate.ErrOutOfRange, Field: key, Detail: "too many filter entries"}
		}
		p.filterMACs = append(p.filterMACs, args[0].s)
	default:
		return ErrUnknownKey
	}

	return nil
}

// fieldOf extracts the field a validation error names.
func fieldOf(err error) string {
	var verr *validate.Error
	if errors.As(err, &verr) && verr.Field != "" {
		return verr.Field
	}
	return blockAPConfig
}

func oneInt(args []token) (int64, error) {
	if len(args) != 1 {
		return 0, errors.Wrapf(ErrSyntax, "want one value, have %d", len(args))
	}
	return parseInt(args[0].s)
}

func parseInt(s string) (int64, error) {
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, &validate.Error{Kind: validate.ErrInvalidValue, Detail: strconv.Quote(s) + " is not a number"}
	}
	return v, nil
}

func ints(args []token) ([]int64, error) {
	out := make([]int64, 0, len(args))
	for _, a := range args {
		v, err := parseInt(a.s)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
