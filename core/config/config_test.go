package config

import (
	"reflect"
	"strings"
	"testing"

	"github.com/keelsh/keelsh/core/sys"
	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v2"
)

func TestBuiltinConfig(t *testing.T) {
	rawConfig := make(map[string]interface{})
	assert.Nil(t, yaml.Unmarshal(defaultConfigData, &rawConfig))

	knownFields := make(map[string]bool)
	rt := reflect.TypeOf(Configuration{})
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		assert.NotEmpty(t, jsonTag)
		jsonField := strings.Split(jsonTag, ",")[0]
		knownFields[jsonField] = true

		if _, ok := rawConfig[jsonField]; !ok {
			assert.False(t, true, "default config missing field: %q", jsonField)
		}
	}

	for k := range rawConfig {
		_, ok := knownFields[k]
		assert.True(t, ok, "default config contains invalid field: %q", k)
	}
}

func TestDefaultConfig(t *testing.T) {
	// Will panic() on load failure because it should never happen at runtime.
	cfg := defaultConfig()
	assert.NotNil(t, cfg)
	assert.Nil(t, cfg.Validate(), "default config must validate")
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg := defaultConfig()
	cfg.SSHPort = 100000
	err := cfg.Validate()
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "ssh_port")
}

func TestValidateRejectsDuplicateUsers(t *testing.T) {
	cfg := defaultConfig()
	cfg.Users = append(cfg.Users, cfg.Users[0])
	assert.NotNil(t, cfg.Validate())
}

func TestGetPasswords(t *testing.T) {
	cfg := &Configuration{
		GlobalPasswords: []string{"hunter2"},
		Users: []User{
			{Username: "root", Passwords: []string{"root", "toor"}},
			{Username: "admin", Passwords: []string{"admin"}},
		},
	}

	assert.Equal(t, []string{"root", "toor", "hunter2"}, cfg.GetPasswords("root"))
	assert.Equal(t, []string{"admin", "hunter2"}, cfg.GetPasswords("admin"))
	assert.Equal(t, []string{"hunter2"}, cfg.GetPasswords("nobody"))
}

func TestLookupUser(t *testing.T) {
	cfg := defaultConfig()

	root, ok := cfg.LookupUser("root")
	assert.True(t, ok)
	assert.Equal(t, "/root", root.Home)

	_, ok = cfg.LookupUser("nobody")
	assert.False(t, ok)
}

func TestUnameUtsname(t *testing.T) {
	uname := Uname{
		KernelName:       "Linux",
		Nodename:         "web-01",
		KernelRelease:    "5.15.0-91-generic",
		KernelVersion:    "#101-Ubuntu SMP Tue Nov 14 13:30:08 UTC 2023",
		HardwarePlatform: "x86_64",
	}

	assert.Equal(t, sys.Utsname{
		Sysname:  "Linux",
		Nodename: "web-01",
		Release:  "5.15.0-91-generic",
		Version:  "#101-Ubuntu SMP Tue Nov 14 13:30:08 UTC 2023",
		Machine:  "x86_64",
	}, uname.Utsname())
}
