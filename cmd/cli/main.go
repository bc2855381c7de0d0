package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/wadjakorntonsri/go-linkbio/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/go-linkbio/pkg/config"
	"github.com/wadjakorntonsri/go-linkbio/pkg/core/domain"
	"github.com/wadjakorntonsri/go-linkbio/pkg/core/reconcile"
	"github.com/wadjakorntonsri/go-linkbio/pkg/core/services"
	"github.com/wadjakorntonsri/go-linkbio/pkg/logging"
)

const usage = "expected 'export', 'import' or 'compact' subcommands"

// exportDoc is the file format shared by export and import.
type exportDoc struct {
	Profile *domain.Profile `json:"profile,omitempty"`
	Links   []domain.Link   `json:"links"`
}

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	exportProfile := exportCmd.String("profile", "", "profile id to export")
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	importProfile := importCmd.String("profile", "", "profile id to import into (defaults to the file's profile)")
	importFile := importCmd.String("file", "", "JSON file to import")
	compactCmd := flag.NewFlagSet("compact", flag.ExitOnError)
	compactProfile := compactCmd.String("profile", "", "profile id whose order to re-settle")

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cfg := config.Load()
	log := logging.New(cfg)
	repo, err := sqlite.NewSQLiteRepository(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to db")
	}
	defer repo.Close()

	t := &tool{repo: repo, log: log, timeout: cfg.ReconcileTimeout, concurrency: cfg.ReconcileConcurrency}
	ctx := context.Background()

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		requireFlag(exportCmd, *exportProfile)
		err = t.export(ctx, *exportProfile, os.Stdout)
	case "import":
		importCmd.Parse(os.Args[2:])
		requireFlag(importCmd, *importFile)
		var f *os.File
		if f, err = os.Open(*importFile); err == nil {
			var n int
			n, err = t.importLinks(ctx, *importProfile, f)
			f.Close()
			log.Info().Int("imported", n).Msg("import finished")
		}
	case "compact":
		compactCmd.Parse(os.Args[2:])
		requireFlag(compactCmd, *compactProfile)
		var links []domain.Link
		if links, err = t.compact(ctx, *compactProfile); err == nil {
			log.Info().Int("links", len(links)).Msg("order settled")
		}
	default:
		fmt.Println(usage)
		os.Exit(1)
	}

	if err != nil {
		log.Fatal().Err(err).Msg(os.Args[1] + " failed")
	}
}

func requireFlag(fs *flag.FlagSet, value string) {
	if value == "" {
		fs.PrintDefaults()
		os.Exit(1)
	}
}

type tool struct {
	repo        *sqlite.SQLiteRepository
	log         zerolog.Logger
	timeout     time.Duration
	concurrency int
}

func (t *tool) session(ctx context.Context, profileID string) (*services.LinkSession, error) {
	if _, err := t.repo.GetProfile(ctx, profileID); err != nil {
		return nil, err
	}
	rec := reconcile.New(t.repo, t.concurrency, t.log)
	return services.NewLinkSession(ctx, profileID, t.repo, rec, t.log, t.timeout)
}

func (t *tool) export(ctx context.Context, profileID string, w io.Writer) error {
	profile, err := t.repo.GetProfile(ctx, profileID)
	if err != nil {
		return err
	}
	links, err := t.repo.List(ctx, profileID)
	if err != nil {
		return err
	}
	profile.OwnerEmail = ""

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(exportDoc{Profile: profile, Links: links})
}

// importLinks appends the file's links after the profile's existing ones,
// keeping their relative order. Links whose id already exists are skipped.
func (t *tool) importLinks(ctx context.Context, profileID string, r io.Reader) (int, error) {
	var doc exportDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return 0, fmt.Errorf("decode: %w", err)
	}
	if profileID == "" && doc.Profile != nil {
		profileID = doc.Profile.ID
	}
	if profileID == "" {
		return 0, &domain.ValidationError{Field: "profile", Message: "no target profile"}
	}

	sess, err := t.session(ctx, profileID)
	if err != nil {
		return 0, err
	}

	sort.SliceStable(doc.Links, func(i, j int) bool { return doc.Links[i].OrderIndex < doc.Links[j].OrderIndex })
	count := 0
	for _, l := range doc.Links {
		if existing, _ := t.repo.Get(ctx, l.ID); existing != nil {
			t.log.Warn().Str("link_id", l.ID).Msg("skipping existing link")
			continue
		}
		l.ClickCount = 0
		if _, err := sess.Insert(ctx, l); err != nil {
			t.log.Warn().Err(err).Str("link_id", l.ID).Msg("failed to import link")
			continue
		}
		count++
	}

	if _, err := sess.Sync(ctx); err != nil {
		return count, err
	}
	return count, nil
}

func (t *tool) compact(ctx context.Context, profileID string) ([]domain.Link, error) {
	sess, err := t.session(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return sess.Sync(ctx)
}
