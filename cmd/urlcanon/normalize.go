package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

type NormalizeCmd struct {
	Inputs []string `arg:"" optional:"" help:"Texts to scan for URLs. Stdin is read when no inputs or files are given."`
	File   []string `short:"f" type:"existingfile" help:"Read input from file. May be repeated."`
	List   bool     `short:"l" help:"Treat every input line as one URL instead of scanning free text."`
}

func (c *NormalizeCmd) Run(g *Globals, s *streams) error {
	cfg, err := g.settings()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, s.err)

	inputs, err := c.inputs(s.in)
	if err != nil {
		return err
	}

	batch, err := newBatch(cfg, extractorFor(c.List), logger, nil)
	if err != nil {
		return err
	}
	res := batch.Run(inputs...)
	logger.Debug("Normalization finished.",
		"candidates", res.Stats.Candidates,
		"normalized", res.Stats.Normalized,
		"dropped", res.Stats.Dropped)

	w := bufio.NewWriter(s.out)
	for _, u := range res.URLs {
		fmt.Fprintln(w, u)
	}
	return w.Flush()
}

func (c *NormalizeCmd) inputs(stdin io.Reader) ([]string, error) {
	inputs := append([]string(nil), c.Inputs...)
	for _, path := range c.File {
		payload, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		inputs = append(inputs, string(payload))
	}
	if len(inputs) > 0 {
		return inputs, nil
	}

	var b strings.Builder
	if _, err := io.Copy(&b, stdin); err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return []string{b.String()}, nil
}
