package loader

import (
	"os"
	"path/filepath"
	"routeros/internal/config"
	"routeros/internal/types"

	"github.com/klauspost/compress/zstd"
	log "github.com/sirupsen/logrus"
)

func (s *UnitTestSuite) TestFormatFromPath() {
	f, compressed, err := FormatFromPath("a/b/routers.YML")
	s.NoError(err)
	s.Equal(FormatYAML, f)
	s.False(compressed)

	f, compressed, err = FormatFromPath("router.json.zst")
	s.NoError(err)
	s.Equal(FormatJSON, f)
	s.True(compressed)

	_, _, err = FormatFromPath("router.toml")
	s.ErrorIs(err, types.ErrInvalidSource)
}

func (s *UnitTestSuite) TestLoadYAMLWithSelector() {
	err := LoadFile(s.store, "testdata/routers.yml", "routers.core")
	s.NoError(err)

	st := s.store.Settings()
	s.Equal("192.168.88.1", st.Host)
	s.Equal("admin", st.User)
	s.Equal("changeme", st.Pass)
	s.True(st.SSL)
	s.Equal(types.PortSSL, st.Port)
	s.Equal(5, s.mustInt(types.Timeout))
	s.Equal(types.DefaultAttempts, st.Attempts)
}

func (s *UnitTestSuite) TestLoadYAMLNullDeletes() {
	err := LoadFile(s.store, "testdata/routers.yml", "routers.edge")
	s.NoError(err)

	v, ok, err := s.store.Get(types.Port)
	s.NoError(err)
	s.True(ok)
	s.Equal(18728, v.AsInt())

	_, ok, err = s.store.Get(types.Delay)
	s.NoError(err)
	s.False(ok)

	v, _, _ = s.store.Get(types.Legacy)
	s.True(v.AsBool())
}

func (s *UnitTestSuite) TestLoadJSON() {
	err := LoadFile(s.store, "testdata/router.json", "")
	s.NoError(err)
	s.Equal(3, s.mustInt(types.Attempts))
	s.Equal("172.16.0.1", s.store.Settings().Host)
	s.Equal(types.PortPlain, s.mustInt(types.Port))
}

func (s *UnitTestSuite) TestJSONFloatRejected() {
	err := LoadFile(s.store, "testdata/float.json", "")
	s.ErrorIs(err, types.ErrTypeMismatch)
	s.Contains(err.Error(), "'double'")
	s.Equal(types.DefaultTimeout, s.mustInt(types.Timeout))
}

func (s *UnitTestSuite) TestInvalidDocumentIsAtomic() {
	before := s.store.Parameters()
	err := LoadFile(s.store, "testdata/invalid.yml", "")
	s.Error(err)
	s.ErrorIs(err, types.ErrTypeMismatch)
	s.ErrorIs(err, types.ErrUnknownParameter)

	var tme *types.TypeMismatchError
	s.ErrorAs(err, &tme)
	s.Equal(before, s.store.Parameters(), "no entry may be applied when any entry fails")
}

func (s *UnitTestSuite) TestSelectErrors() {
	doc, err := ReadFile("testdata/routers.yml")
	s.NoError(err)

	_, err = Select(doc, "routers.missing")
	s.ErrorIs(err, types.ErrInvalidSource)

	_, err = Select(doc, "routers.core.host")
	s.ErrorIs(err, types.ErrInvalidSource)

	_, err = Select(doc, "routers.[")
	s.ErrorIs(err, types.ErrInvalidSource)

	same, err := Select(doc, "")
	s.NoError(err)
	s.Equal(doc, same)
}

func (s *UnitTestSuite) TestLoadCompressed() {
	raw, err := os.ReadFile("testdata/router.json")
	s.NoError(err)
	enc, err := zstd.NewWriter(nil)
	s.NoError(err)
	packed := enc.EncodeAll(raw, nil)
	s.NoError(enc.Close())

	path := filepath.Join(s.T().TempDir(), "router.json.zst")
	s.NoError(os.WriteFile(path, packed, 0o600))

	err = LoadFile(s.store, path, "")
	s.NoError(err)
	s.Equal("monitor", s.store.Settings().User)

	s.NoError(os.WriteFile(path, raw, 0o600))
	err = LoadFile(s.store, path, "")
	s.ErrorIs(err, types.ErrInvalidSource)
}

func (s *UnitTestSuite) TestMissingFile() {
	err := LoadFile(s.store, "testdata/nope.yml", "")
	s.ErrorIs(err, types.ErrInvalidSource)
	s.ErrorIs(err, os.ErrNotExist)
}

func (s *UnitTestSuite) TestApplyEnvFile() {
	env, err := ReadEnvFile("testdata/router.env")
	s.NoError(err)
	s.NoError(ApplyEnv(s.store, env))

	st := s.store.Settings()
	s.Equal("192.0.2.10", st.Host)
	s.Equal("s3cret#pass", st.Pass)
	s.True(st.SSL)
	s.Equal(4, st.Attempts)
	s.Equal(types.PortSSL, st.Port)
}

func (s *UnitTestSuite) TestApplyEnvInvalid() {
	env, err := ReadEnvFile("testdata/bad.env")
	s.NoError(err)

	before := s.store.Parameters()
	err = ApplyEnv(s.store, env)
	s.ErrorIs(err, types.ErrTypeMismatch)
	s.ErrorIs(err, types.ErrUnknownParameter)
	s.Equal(before, s.store.Parameters())
}

func (s *UnitTestSuite) TestEnvironOverrides() {
	s.T().Setenv(EnvKey(types.Host), "198.51.100.7")
	s.T().Setenv(EnvKey(types.Legacy), "1")

	s.NoError(ApplyEnv(s.store, Environ()))
	s.Equal("198.51.100.7", s.store.Settings().Host)
	s.True(s.store.Settings().Legacy)
	s.Equal("ROS_HOST", EnvKey(types.Host))
}

func (s *UnitTestSuite) TestReadEnvFileMissing() {
	_, err := ReadEnvFile("testdata/missing.env")
	s.ErrorIs(err, types.ErrInvalidSource)
}

func (s *UnitTestSuite) mustInt(p types.Param) int {
	v, ok, err := s.store.Get(p)
	s.Require().NoError(err)
	s.Require().True(ok)
	return v.AsInt()
}

func (s *UnitTestSuite) TestApplyEnvMixedCaseKeys() {
	err := ApplyEnv(s.store, map[string]string{
		"ROS_Host": "10.9.9.9",
		"ROS_ssl":  "true",
	})
	s.NoError(err)

	v, ok, err := s.store.Get(types.Host)
	s.NoError(err)
	s.True(ok, "validated key must be written")
	s.Equal("10.9.9.9", v.AsString())
	s.True(s.store.Settings().SSL)
	s.Equal(types.PortSSL, s.mustInt(types.Port))
}

func (s *UnitTestSuite) TestApplyProcessEnvSkipsUnknown() {
	err := ApplyProcessEnv(s.store, map[string]string{
		"ROS_DISTRO":  "humble",
		"ROS_VERSION": "2",
		"ROS_HOST":    "10.0.0.2",
	})
	s.NoError(err)
	s.Equal("10.0.0.2", s.store.Settings().Host)

	warned := 0
	for _, e := range s.logs.AllEntries() {
		if e.Level == log.WarnLevel {
			warned++
		}
	}
	s.Equal(2, warned)

	err = ApplyEnv(config.NewStore(), map[string]string{"ROS_DISTRO": "humble"})
	s.ErrorIs(err, types.ErrUnknownParameter)
}

func (s *UnitTestSuite) TestApplyProcessEnvRejectsMalformed() {
	before := s.store.Parameters()
	err := ApplyProcessEnv(s.store, map[string]string{
		"ROS_HOST": "10.0.0.3",
		"ROS_PORT": "eighty",
	})
	s.ErrorIs(err, types.ErrTypeMismatch)
	s.Equal(before, s.store.Parameters())
}

func (s *UnitTestSuite) TestValidationDoesNotLogWrites() {
	err := LoadFile(s.store, "testdata/invalid.yml", "")
	s.Error(err)
	s.Empty(s.setLogs(), "rejected document must not log any write")

	s.NoError(LoadFile(s.store, "testdata/router.json", ""))
	s.Len(s.setLogs(), 4, "one entry per written parameter")

	s.logs.Reset()
	s.NoError(ApplyEnv(s.store, map[string]string{"ROS_HOST": "10.0.0.4", "ROS_USER": "ops"}))
	s.Len(s.setLogs(), 2)

	s.logs.Reset()
	s.Error(ApplyEnv(s.store, map[string]string{"ROS_HOST": "10.0.0.5", "ROS_PORT": "x"}))
	s.Empty(s.setLogs())
}

func (s *UnitTestSuite) TestReadEnvFileMalformed() {
	_, err := ReadEnvFile("testdata/malformed.env")
	s.ErrorIs(err, types.ErrInvalidSource)
	s.NotErrorIs(err, os.ErrNotExist)
}

func (s *UnitTestSuite) setLogs() []*log.Entry {
	var out []*log.Entry
	for _, e := range s.logs.AllEntries() {
		if e.Message == "config parameter set" {
			out = append(out, e)
		}
	}
	return out
}
