package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/jobmatch/internal/artifact"
	"github.com/kailas-cloud/jobmatch/internal/domain"
	"github.com/kailas-cloud/jobmatch/internal/domain/query"
	fituc "github.com/kailas-cloud/jobmatch/internal/usecase/fit"
	matchuc "github.com/kailas-cloud/jobmatch/internal/usecase/match"
)

func (c *cli) newFitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit the vectorizer on a job corpus and write the artifacts",
		Example: `  jobfit fit --corpus jobs.csv --out ./artifacts \
    --fields "Job Title,Role,skills,Company,Qualifications,Work Type"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.bindFlags(cmd, map[string]string{
				keyCorpus:         keyCorpus,
				keyOut:            "out",
				keyFields:         "fields",
				keyCombinedColumn: "combined-column",
				keyStem:           "stem",
				keyQuery:          keyQuery,
				keyTopK:           keyTopK,
			}); err != nil {
				return err
			}
			return c.runFit(cmd.Context())
		},
	}

	f := cmd.Flags()
	f.String(keyCorpus, "", "job corpus to fit (.csv or .parquet)")
	f.String("out", "", "artifact output directory")
	f.StringSlice("fields", nil, "comma-separated corpus columns to combine")
	f.String("combined-column", "", "name of the Combined Text column in the processed dataset")
	f.Bool("stem", false, "apply English Snowball stemming")
	f.String(keyQuery, "", "after fitting, print the top matches for this query")
	f.Int(keyTopK, 0, "number of matches printed for --query")

	return cmd
}

func (c *cli) runFit(ctx context.Context) error {
	corpusPath := c.v.GetString(keyCorpus)
	if corpusPath == "" {
		return fmt.Errorf("%w: --corpus is required", domain.ErrConfiguration)
	}

	logger, err := c.logger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	req := fituc.Request{
		CorpusPath: corpusPath,
		Layout:     artifact.DefaultLayout(c.v.GetString(keyOut)),
		Options: fituc.Options{
			Fields:         c.stringList(keyFields),
			CombinedColumn: c.v.GetString(keyCombinedColumn),
			Stem:           c.v.GetBool(keyStem),
		},
	}

	model, err := fituc.New(nil, nil, logger).Run(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "wrote %s\n", strings.Join(req.Layout.Paths(), ", "))
	printSummary(c.out, model)

	q := c.v.GetString(keyQuery)
	if q == "" {
		return nil
	}
	fmt.Fprintln(c.out)
	return c.printMatches(ctx, model, q)
}

// printMatches runs one query against the freshly fitted model.
func (c *cli) printMatches(ctx context.Context, model *artifact.Model, text string) error {
	cfg := domain.DefaultMatchConfig()
	svc := matchuc.New(artifact.NewHolder(model), nil, cfg, matchuc.Metrics{})

	q, err := query.New(query.Fragments{Skills: text}, c.v.GetInt(keyTopK), 0)
	if err != nil {
		return err
	}
	res, err := svc.Search(ctx, q)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tSCORE\tROW\tCOMBINED TEXT")
	for i := range res.Matches {
		m := &res.Matches[i]
		rec := m.Record()
		fmt.Fprintf(tw, "%d\t%.4f\t%d\t%s\n", m.Rank(), m.Score(), rec.Index(), truncate(rec.Get(model.CombinedColumn()), 80))
	}
	return tw.Flush()
}

func printSummary(w io.Writer, m *artifact.Model) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "fingerprint:\t%s\n", m.Fingerprint())
	fmt.Fprintf(tw, "documents:\t%d\n", m.NumDocs())
	fmt.Fprintf(tw, "vocabulary:\t%d\n", m.VocabularySize())
	fmt.Fprintf(tw, "non-zeros:\t%d\n", m.Matrix().NNZ())
	fmt.Fprintf(tw, "fields:\t%s\n", strings.Join(m.Fields(), ", "))
	fmt.Fprintf(tw, "combined column:\t%s\n", m.CombinedColumn())
	fmt.Fprintf(tw, "stemming:\t%t\n", m.Vectorizer().Analyzer().Stem)
	_ = tw.Flush()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
