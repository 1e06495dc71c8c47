package config

import (
	"gorm.io/gorm"
)

// Context holds the overall application state shared by the commands.
type Context struct {
	Db       *gorm.DB
	Settings *Settings
	Labels   []string // class labels discovered from the input directory
}

// NewContext creates a new instance of Context with the provided settings.
func NewContext(settings *Settings) *Context {
	return &Context{
		Settings: settings,
	}
}
