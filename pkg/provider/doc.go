/*
Package provider is the registry of remote asset stores a theme can be synced to.

	            +---------------+
	            | remote.Client |
	            +-------+-------+
	                    |
	  +--------+--------+--------+--------+
	  |        |        |        |        |
	theme      s3     github    sftp     dir

🎯 Purpose:
- Maps a backend name from configuration to a remote.Client
- Keeps store specific wire details out of the sync engine

🔄 Flow:
1. Backend packages call Register from init
2. The engine calls New with the configured backend name and credentials
3. The returned client is handed to the task queue

⚡ Backend contract:
- Put and Delete are idempotent
- Errors are marked with remote.Transient or remote.Fatal where the store tells us which
- Clients that cannot take concurrent calls implement remote.Sequential

🔍 Example:

	import _ "github.com/walteh/themesync/pkg/provider/all"

	client, err := provider.New(ctx, "s3", provider.Args{
		AuthToken:       "AKID:SECRET",
		StoreIdentifier: "my-bucket",
		ResourceID:      "themes/dev",
	})
*/
package provider
