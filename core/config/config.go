// Package config holds the on-disk configuration of the shell: the system
// identity it reports, the accounts the SSH server accepts, and where the
// host key and event log live.
package config

import (
	_ "embed"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/keelsh/keelsh/core/sys"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

//go:embed default/config.yaml
var defaultConfigData []byte

const (
	ConfigurationName = "config.yaml"
	PrivateKeyName    = "private_key"
	AppLogName        = "app.log"
)

type Configuration struct {
	dir      string
	configFs afero.Fs

	Motd             string `json:"motd"`
	SSHPort          int    `json:"ssh_port" validate:"gte=0,lte=65535"`
	SSHBanner        string `json:"ssh_banner"`
	AllowAnyPassword bool   `json:"allow_any_password"`

	GlobalPasswords []string `json:"global_passwords"`

	OS OS `json:"os"`

	Users []User `json:"users" validate:"unique=Username"`

	Uname Uname `json:"uname"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

type User struct {
	Username  string   `json:"username" validate:"required"`
	UID       int      `json:"uid" validate:"gte=0"`
	GID       int      `json:"gid" validate:"gte=0"`
	Home      string   `json:"home" validate:"required"`
	Shell     string   `json:"shell" validate:"required"`
	Passwords []string `json:"passwords" validate:"unique"`
}

type OS struct {
	DefaultShell   string `json:"default_shell" validate:"required"`
	DefaultPath    string `json:"default_path" validate:"required"`
	DefaultHome    string `json:"default_home" validate:"required"`
	DefaultWorkdir string `json:"default_workdir" validate:"required"`
}

type Uname struct {
	KernelName       string `json:"kernel_name" validate:"required"`               // Kernel name e.g. "Linux".
	Nodename         string `json:"nodename" validate:"required,hostname_rfc1123"` // Hostname of the machine on one of its networks.
	KernelRelease    string `json:"kernel_release" validate:"required"`            // OS release e.g. "4.15.0-147-generic"
	KernelVersion    string `json:"kernel_version" validate:"required"`            // OS version e.g. "#151-Ubuntu SMP Fri Jun 18 19:21:19 UTC 2021"
	HardwarePlatform string `json:"hardware_platform" validate:"required"`         // Machine name e.g. "x86_64"
	Domainname       string `json:"domainname" validate:""`                        // NIS or YP domain name.
}

// Utsname converts the configured identity into the form the kernel
// abstraction reports from uname.
func (u Uname) Utsname() sys.Utsname {
	return sys.Utsname{
		Sysname:    u.KernelName,
		Nodename:   u.Nodename,
		Release:    u.KernelRelease,
		Version:    u.KernelVersion,
		Machine:    u.HardwarePlatform,
		Domainname: u.Domainname,
	}
}

// Dir returns the directory the configuration was loaded from.
func (c *Configuration) Dir() string {
	return c.dir
}

func (c *Configuration) fs() afero.Fs {
	return c.configFs
}

// PrivateKeyPem returns the bytes of the SSH host key.
func (c *Configuration) PrivateKeyPem() ([]byte, error) {
	return afero.ReadFile(c.fs(), PrivateKeyName)
}

// OpenAppLog opens the event log in an append only state.
func (c *Configuration) OpenAppLog() (afero.File, error) {
	return c.fs().OpenFile(AppLogName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

// ReadAppLog opens the event log for reading.
func (c *Configuration) ReadAppLog() (afero.File, error) {
	return c.fs().OpenFile(AppLogName, os.O_RDONLY, 0600)
}

// GetPasswords returns allowable passwords for the given username.
func (c *Configuration) GetPasswords(username string) []string {
	var out []string
	for _, v := range c.Users {
		if v.Username == username {
			out = append(out, v.Passwords...)
		}
	}

	out = append(out, c.GlobalPasswords...)
	return out
}

// LookupUser returns the account configured for username.
func (c *Configuration) LookupUser(username string) (User, bool) {
	for _, v := range c.Users {
		if v.Username == username {
			return v, true
		}
	}
	return User{}, false
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}

// Default returns the built-in configuration for running without an
// initialized config directory. It has no directory attached, so the file
// backed accessors don't work on it.
func Default() *Configuration {
	return defaultConfig()
}
