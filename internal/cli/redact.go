// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"docredact/internal/core"
	"docredact/internal/detector"
	"docredact/internal/formatters"
	"docredact/internal/payload"
	"docredact/internal/redactors"
	"docredact/internal/security"
)

// DefaultPassphraseEnv is the variable read for the payload passphrase
const DefaultPassphraseEnv = "DOCREDACT_PASSPHRASE"

type redactOptions struct {
	outputDir     string
	audit         bool
	auditFile     string
	regionsFile   string
	payloadFile   string
	sinkURL       string
	fileID        string
	passphraseEnv string
	jobs          int
}

// submits reports whether a payload should be built and sent
func (o *redactOptions) submits() bool {
	return o.fileID != "" || o.payloadFile != "" || o.sinkURL != ""
}

func (o *redactOptions) check(inputs int) error {
	if o.jobs < 1 {
		return usagef("--jobs must be at least 1")
	}
	if inputs > 1 && (o.auditFile != "" || o.regionsFile != "" || o.submits()) {
		return usagef("--audit-file, --regions-file and payload submission need exactly one input file")
	}
	if o.payloadFile != "" && o.sinkURL != "" {
		return usagef("--payload-file and --sink-url are mutually exclusive")
	}
	return nil
}

func newRedactCommand(a *app) *cobra.Command {
	var sel selection
	var out output
	var opts redactOptions

	cmd := &cobra.Command{
		Use:   "redact <file>...",
		Short: "Redact documents and write Redacted_<name> artifacts",
		Long: `Redact scans each document like "scan", then writes a redacted artifact
named Redacted_<name>.<ext> into the output directory. The extension follows
the artifact actually produced, so a PDF that fell back to text is written as
.txt.

Several files are processed concurrently, each in its own session. With a
single input, --file-id submits the redaction payload to --sink-url (or the
configured sink) or writes it to --payload-file. The passphrase is read from
the environment variable named by --passphrase-env.`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.check(); err != nil {
				return err
			}
			if err := opts.check(len(args)); err != nil {
				return err
			}
			return a.runRedact(cmd.Context(), args, &sel, &out, &opts)
		},
	}
	sel.register(cmd.Flags())
	out.register(cmd.Flags())

	flags := cmd.Flags()
	flags.StringVarP(&opts.outputDir, "output-dir", "o", "", "directory for redacted artifacts (default from config)")
	flags.BoolVar(&opts.audit, "audit", false, "write an audit log next to each artifact")
	flags.StringVar(&opts.auditFile, "audit-file", "", "write the audit log to this path")
	flags.StringVar(&opts.regionsFile, "regions-file", "", "JSON file with explicit page regions to black out")
	flags.StringVar(&opts.payloadFile, "payload-file", "", "write the redaction payload to this file")
	flags.StringVar(&opts.sinkURL, "sink-url", "", "POST the redaction payload to this URL")
	flags.StringVar(&opts.fileID, "file-id", "", "file identifier sent with the payload")
	flags.StringVar(&opts.passphraseEnv, "passphrase-env", DefaultPassphraseEnv, "environment variable holding the passphrase")
	flags.IntVarP(&opts.jobs, "jobs", "j", 4, "number of files redacted concurrently")
	return cmd
}

func (a *app) runRedact(ctx context.Context, args []string, sel *selection, out *output, opts *redactOptions) error {
	engine, err := a.engine()
	if err != nil {
		return err
	}
	keys, terms, err := sel.resolve(a.cfg, engine.Catalog())
	if err != nil {
		return err
	}

	var regions []redactors.Region
	if opts.regionsFile != "" {
		data, err := os.ReadFile(opts.regionsFile)
		if err != nil {
			return fmt.Errorf("failed to read regions file: %w", err)
		}
		if regions, err = payload.ParseRegionsJSON(data); err != nil {
			return err
		}
	}

	outputDir := opts.outputDir
	if outputDir == "" {
		outputDir = a.cfg.Redaction.OutputDir
	}
	om, err := redactors.NewOutputManager(outputDir, a.observer)
	if err != nil {
		return &usageError{err: err}
	}

	if opts.auditFile == "" && len(args) == 1 {
		opts.auditFile = a.cfg.Redaction.AuditFile
	}

	reports := make([]*formatters.Report, len(args))
	errs := make([]error, len(args))

	var g errgroup.Group
	g.SetLimit(opts.jobs)
	for i, path := range args {
		i, path := i, path
		g.Go(func() error {
			reports[i], errs[i] = a.redactOne(ctx, engine, om, path, keys, terms, regions, opts)
			return errs[i]
		})
	}
	firstErr := g.Wait()

	done := make([]*formatters.Report, 0, len(reports))
	for _, r := range reports {
		if r != nil {
			done = append(done, r)
		}
	}
	if len(done) > 0 {
		if err := a.render(out, done); err != nil {
			return err
		}
	}

	if firstErr != nil {
		failed := 0
		for i, err := range errs {
			if err != nil {
				failed++
				if len(args) > 1 {
					fmt.Fprintf(a.stderr, "%s: %v\n", args[i], err)
				}
			}
		}
		if len(args) > 1 {
			return fmt.Errorf("%d of %d documents failed", failed, len(args))
		}
		return firstErr
	}
	return nil
}

func (a *app) redactOne(ctx context.Context, engine *core.Engine, om *redactors.OutputManager, path string,
	keys []string, terms []detector.SearchTerm, regions []redactors.Region, opts *redactOptions) (*formatters.Report, error) {

	session, err := engine.ScanFile(path, keys, terms)
	if err != nil {
		return nil, err
	}
	result, err := engine.Redact(session, regions)
	if err != nil {
		if errors.Is(err, redactors.ErrNoMatches) {
			return nil, fmt.Errorf("%s: nothing to redact with the selected detectors and terms: %w", path, err)
		}
		return nil, err
	}

	artifact := result.Artifact()
	artifactPath, err := om.WriteArtifact(artifact)
	if err != nil {
		return nil, err
	}
	result.AuditLog.SetRedactedPath(artifactPath)

	auditPath := opts.auditFile
	if auditPath == "" && opts.audit {
		auditPath = artifactPath + ".audit.json"
	}
	if auditPath != "" {
		if err := om.WriteAuditLog(auditPath, result.AuditLog); err != nil {
			return nil, err
		}
	}

	chunkIdx, err := session.Chunks(a.cfg.Redaction.ChunkSize)
	if err != nil {
		return nil, err
	}

	if opts.submits() {
		if err := a.submit(ctx, session, regions, opts); err != nil {
			return nil, err
		}
	}

	fallbacks := make([]string, 0, len(result.Outcome.Fallbacks))
	for _, f := range result.Outcome.Fallbacks {
		fallbacks = append(fallbacks, f.Error())
	}

	return &formatters.Report{
		File:      path,
		Kind:      session.Document.Kind.String(),
		Detectors: keys,
		Warnings:  warningStrings(session.Warnings),
		Summary:   session.Summary,
		Chunks:    chunkIdx,
		Artifact: &formatters.ArtifactInfo{
			Name:      artifact.Name,
			Path:      artifactPath,
			Kind:      string(artifact.Kind),
			MediaType: artifact.Kind.MIMEType(),
			Strategy:  artifact.Strategy,
			SHA256:    artifact.SHA256,
			PageCount: artifact.PageCount,
			Fallbacks: fallbacks,
		},
	}, nil
}

// submit builds the payload for session and hands it to the configured sink.
// The passphrase is wiped once the payload has been sent or rejected.
func (a *app) submit(ctx context.Context, session *core.Session, regions []redactors.Region, opts *redactOptions) error {
	passphrase := security.NewSecureString(os.Getenv(opts.passphraseEnv))
	defer passphrase.Clear()

	p, err := session.Payload(opts.fileID, passphrase, regions)
	if err != nil {
		return err
	}

	var sink payload.Sink
	switch {
	case opts.payloadFile != "":
		sink = &payload.FileSink{Path: opts.payloadFile}
	default:
		url := opts.sinkURL
		if url == "" {
			url = a.cfg.Sink.URL
		}
		if url == "" {
			p.Discard()
			return usagef("no payload destination: set --payload-file, --sink-url or sink.url")
		}
		httpSink, err := payload.NewHTTPSink(payload.HTTPSinkConfig{
			URL:        url,
			Timeout:    a.cfg.Sink.Timeout,
			MaxRetries: a.cfg.Sink.MaxRetries,
		}, a.observer)
		if err != nil {
			p.Discard()
			return err
		}
		sink = httpSink
	}

	receipt, err := payload.Send(ctx, sink, p)
	if err != nil {
		return fmt.Errorf("failed to submit redaction payload: %w", err)
	}
	a.observer.Logger().Info("redaction payload submitted",
		zap.String("file_id", opts.fileID),
		zap.String("destination", receipt.Destination),
		zap.Int("attempts", receipt.Attempts),
		zap.Duration("duration", receipt.Duration))
	return nil
}
