package main

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confbind/confbind"
)

func testKeyHex() string {
	return hex.EncodeToString([]byte("32-byte-key-for-aes-256-protect!"))
}

// protectValue runs the protect command and returns the sealed value.
func protectValue(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, run(append([]string{"protect"}, args...), &out))
	sealed := strings.TrimSpace(out.String())
	require.NotEmpty(t, sealed)
	return sealed
}

func TestRun_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		flags []string
	}{
		{name: "defaults"},
		{name: "explicit entropy", flags: []string{"-entropy", "0c300814"}},
		{name: "user scope", flags: []string{"-scope", "user"}},
		{name: "entropy and scope", flags: []string{"-entropy", "deadbeef", "-scope", "user"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := append([]string{"-key", testKeyHex()}, tt.flags...)
			sealed := protectValue(t, append(flags, "s3cret value")...)
			assert.NotEqual(t, "s3cret value", sealed)

			var out bytes.Buffer
			require.NoError(t, run(append([]string{"unprotect"}, append(flags, sealed)...), &out))
			assert.Equal(t, "s3cret value", strings.TrimSpace(out.String()))
		})
	}
}

func TestRun_ProtectOutputDecryptsThroughWalk(t *testing.T) {
	sealed := protectValue(t, "-key", testKeyHex(), "hunter2")

	type settings struct {
		Password string
	}
	schema := confbind.NewSchema[settings]("settings").
		Protected("Password",
			func(s *settings) string { return s.Password },
			func(s *settings, v string) { s.Password = v })

	prot, err := confbind.Local([]byte("32-byte-key-for-aes-256-protect!"))
	require.NoError(t, err)

	obj := &settings{Password: sealed}
	_, err = confbind.Walk(t.Context(), schema, obj, confbind.Decrypt, prot)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", obj.Password)
}

func TestRun_ParamsMismatchFails(t *testing.T) {
	sealed := protectValue(t, "-key", testKeyHex(), "-entropy", "deadbeef", "value")

	var out bytes.Buffer
	err := run([]string{"unprotect", "-key", testKeyHex(), sealed}, &out)
	require.Error(t, err, "default entropy must not open ciphertext sealed with explicit entropy")
	assert.Empty(t, out.String())
}

func TestRun_Errors(t *testing.T) {
	t.Setenv("CONFBIND_KEY", "")

	tests := []struct {
		name   string
		args   []string
		errMsg string
	}{
		{
			name:   "no command",
			args:   nil,
			errMsg: "no command specified",
		},
		{
			name:   "unknown command",
			args:   []string{"seal"},
			errMsg: "unknown command",
		},
		{
			name:   "missing key",
			args:   []string{"protect", "value"},
			errMsg: "master key is required",
		},
		{
			name:   "bad hex key",
			args:   []string{"protect", "-key", "not-hex", "value"},
			errMsg: "key is not valid hex",
		},
		{
			name:   "bad key size",
			args:   []string{"protect", "-key", "abcd", "value"},
			errMsg: "",
		},
		{
			name:   "bad hex entropy",
			args:   []string{"protect", "-key", testKeyHex(), "-entropy", "zz", "value"},
			errMsg: "entropy is not valid hex",
		},
		{
			name:   "unknown scope",
			args:   []string{"protect", "-key", testKeyHex(), "-scope", "global", "value"},
			errMsg: `unknown scope "global"`,
		},
		{
			name:   "no value",
			args:   []string{"protect", "-key", testKeyHex()},
			errMsg: "expected exactly one value",
		},
		{
			name:   "too many values",
			args:   []string{"protect", "-key", testKeyHex(), "one", "two"},
			errMsg: "expected exactly one value",
		},
		{
			name:   "unprotect not base64",
			args:   []string{"unprotect", "-key", testKeyHex(), "%%%"},
			errMsg: "value is not base64",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := run(tt.args, &out)
			require.Error(t, err)
			if tt.errMsg != "" {
				assert.Contains(t, err.Error(), tt.errMsg)
			}
		})
	}
}

func TestRun_EnvKeyFallback(t *testing.T) {
	t.Setenv("CONFBIND_KEY", testKeyHex())

	var out bytes.Buffer
	require.NoError(t, run([]string{"protect", "value"}, &out))
	sealed := strings.TrimSpace(out.String())

	out.Reset()
	require.NoError(t, run([]string{"unprotect", sealed}, &out))
	assert.Equal(t, "value", strings.TrimSpace(out.String()))
}

func TestRun_VersionAndHelp(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"version"}, &out))
	assert.Contains(t, out.String(), version)

	out.Reset()
	require.NoError(t, run([]string{"help"}, &out))
	assert.Contains(t, out.String(), "Usage:")
	assert.Contains(t, out.String(), "unprotect")
}
