package main

import (
	"context"
	"io"

	"github.com/water102/siteclone"
	"github.com/water102/siteclone/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx        context.Context
	Stdout     io.Writer
	Stderr     io.Writer
	DB         *sqlite.DB
	Cloner     siteclone.Cloner
	Classifier siteclone.Classifier
	Extractor  siteclone.ReferenceExtractor
	History    siteclone.HistoryService
	Config     *Config
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config string `short:"C" type:"path" help:"Path to a YAML config file"`

	Clone    CloneCmd    `cmd:"" help:"Clone a website into a local directory"`
	Classify ClassifyCmd `cmd:"" help:"Classify a URL as an API request or a static file"`
	Extract  ExtractCmd  `cmd:"" help:"List static references found in an HTML file"`
	Serve    ServeCmd    `cmd:"" help:"Serve a finished clone over HTTP"`
	History  HistoryCmd  `cmd:"" help:"List or delete recorded clone runs"`
}

// CloneCmd is the "clone" subcommand.
type CloneCmd struct {
	URL      string `arg:"" help:"Page URL to clone"`
	Output   string `short:"o" default:"./clone" help:"Output directory"`
	Filename string `short:"f" default:"index.html" help:"Name for the saved document"`
	HTMLOnly bool   `help:"Save the document only, without assets or API logs"`
	HTMLFile string `type:"existingfile" help:"Read the document from a file instead of fetching it (implies --html-only)"`
	Verbose  bool   `short:"v" help:"Log each clone run"`
}

// ClassifyCmd is the "classify" subcommand.
type ClassifyCmd struct {
	URL    string `arg:"" help:"URL to classify"`
	Method string `short:"m" default:"GET" help:"HTTP method"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	File    string `arg:"" type:"existingfile" help:"HTML file to scan"`
	BaseURL string `arg:"" help:"URL the document was captured from"`
	Skipped bool   `short:"s" help:"Show skipped references with reasons"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Dir  string `arg:"" default:"." type:"existingdir" help:"Clone output directory"`
	Addr string `short:"a" default:":8080" help:"Listen address"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	URL    string `short:"u" help:"Filter by target URL"`
	Limit  int    `short:"n" default:"20" help:"Maximum records to show"`
	Delete string `help:"Delete the record with this ID instead of listing"`
}
