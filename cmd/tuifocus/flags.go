package main

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/verte-zerg/tuifocus/internal/model"
)

var (
	_ pflag.Value = activityFlag{}
	_ pflag.Value = factorFlag{}
	_ pflag.Value = formatFlag{}
)

// activityFlag is a pflag.Value accepting activity keys or labels.
type activityFlag struct {
	target *model.Activity
}

func (f activityFlag) String() string {
	if f.target == nil {
		return ""
	}
	return string(*f.target)
}

func (f activityFlag) Set(s string) error {
	a, err := model.ParseActivity(s)
	if err != nil {
		return err
	}
	*f.target = a
	return nil
}

func (f activityFlag) Type() string {
	return "activity"
}

// factorFlag is a pflag.Value accepting distraction factor keys or labels.
type factorFlag struct {
	target *model.DistractionFactor
}

func (f factorFlag) String() string {
	if f.target == nil {
		return ""
	}
	return string(*f.target)
}

func (f factorFlag) Set(s string) error {
	v, err := model.ParseDistractionFactor(s)
	if err != nil {
		return err
	}
	*f.target = v
	return nil
}

func (f factorFlag) Type() string {
	return "factor"
}

// formatFlag restricts --format to the supported export formats.
type formatFlag struct {
	target *string
}

var exportFormats = []string{"table", "json", "yaml"}

func (f formatFlag) String() string {
	if f.target == nil {
		return ""
	}
	return *f.target
}

func (f formatFlag) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, format := range exportFormats {
		if s == format {
			*f.target = s
			return nil
		}
	}
	return errUnknownFormat(s)
}

func (f formatFlag) Type() string {
	return "format"
}
