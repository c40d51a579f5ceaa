// Package setup bootstraps a project status document for a repository.
//
// Setup is idempotent: when a document with projectInfo already exists at the
// target path it is returned unchanged. Otherwise a starter document is
// derived from the repository identifier and the files in the working
// directory, saved, and returned:
//
//	b := setup.New(store, setup.NewOSWorkspace(root), logger)
//	res, err := b.Setup(ctx, "https://example.com/owner/my-repo.git", "src")
//	// res.Document["projectInfo"]["name"] == "my-repo", res.Created == true
package setup
