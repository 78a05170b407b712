// Package autoload initializes the global logger from LOG_* environment
// variables as an import side effect:
//
//	import _ "github.com/bluelane/frontdesk/pkg/logger/autoload"
package autoload

import (
	configx "github.com/bluelane/frontdesk/pkg/config"
	logx "github.com/bluelane/frontdesk/pkg/logger"
)

func init() {
	logx.Init(*configx.MustNew[logx.Config]("LOG"))
}
