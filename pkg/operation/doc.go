/*
Package operation implements the sync engine that pushes a local theme to a remote store.

	+-------------+      +-----------+      +-----------+
	|  Resolver   | ---> | TaskQueue | ---> |  Remote   |
	| (paths)     |      | (workers) |      |  Client   |
	+------+------+      +-----+-----+      +-----------+
	       |                   |
	+------+------+      +-----+-----+
	|   Ignore    |      | Progress  |
	|   Matcher   |      | Reporter  |
	+-------------+      +-----------+

🎯 Purpose:
- Turns requested paths into an ordered, de-duplicated list of files
- Uploads (Sync) or deletes (Unsync) them with bounded concurrency
- Reports progress once per finished file

🔄 Flow:
1. Ignore rules are layered: defaults, then config, then .gitignore files
2. The resolver expands paths under the theme root and drops ignored ones
3. One task per file goes to the task queue
4. The queue retries transient failures and returns an Outcome

⚡ Guarantees:
- Resolution errors abort before any remote call
- Unsync without paths is ErrInvalidArgument and dispatches nothing
- File content is read when its upload runs, not when it is resolved
- A failed file never stops the others; failures are listed in the Outcome

🔍 Example:

	op, err := operation.New(ctx, operation.Options{
		Root: "./theme",
		Config: operation.Config{
			AuthToken:       token,
			StoreIdentifier: "example.myshopify.com",
			ResourceID:      "123456789",
		},
		Reporter: status.NewLineReporter(os.Stdout, "syncing"),
	})
	if err != nil {
		return err
	}
	defer op.Close()

	out, err := op.Sync(ctx, nil)
*/
package operation
