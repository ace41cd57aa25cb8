// Package jobmatch recommends job postings for a free-text candidate
// profile using a TF-IDF bag-of-words model and cosine similarity.
//
// Fitting is offline and writes three artifacts into a directory:
//
//	_, err := jobmatch.Fit(ctx, jobmatch.FitOptions{
//	    Corpus: "job_descriptions.csv",
//	    Dir:    "./artifacts",
//	    Fields: []string{"Job Title", "Role", "skills", "Company", "Qualifications", "Work Type"},
//	})
//
// Serving loads them once and answers queries concurrently:
//
//	client, _ := jobmatch.Open(ctx, "./artifacts", jobmatch.WithDefaultTopK(5))
//	res, err := client.Search(ctx, jobmatch.Query{Skills: "python sql", JobRole: "data analyst"})
//	if errors.Is(err, jobmatch.ErrEmptyQuery) { ... }
//
// Reload re-reads the artifacts and swaps the model atomically; queries in
// flight keep the snapshot they started with.
package jobmatch
