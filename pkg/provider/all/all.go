// Package all registers every built-in backend with the provider registry.
package all

import (
	_ "github.com/walteh/themesync/pkg/provider/dirstore"
	_ "github.com/walteh/themesync/pkg/provider/github"
	_ "github.com/walteh/themesync/pkg/provider/s3"
	_ "github.com/walteh/themesync/pkg/provider/sftp"
	_ "github.com/walteh/themesync/pkg/provider/themeapi"
)
