package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ParseDBConnString(t *testing.T) {
	testCases := []struct {
		name   string
		connStr string
		expect Database
		errors bool
	}{
		{name: "inmem", connStr: "inmem", expect: Database{Type: DatabaseInMemory}},
		{name: "sqlite with path", connStr: "sqlite:/var/lib/mata", expect: Database{Type: DatabaseSQLite, DataDir: "/var/lib/mata"}},
		{name: "sqlite without path is an error", connStr: "sqlite", errors: true},
		{name: "inmem with extra params is an error", connStr: "inmem:foo", errors: true},
		{name: "unknown engine is an error", connStr: "postgres:localhost", errors: true},
		{name: "none is an error", connStr: "none", errors: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := ParseDBConnString(tc.connStr)
			if tc.errors {
				assert.Error(err)
				return
			}
			if !assert.NoError(err) {
				return
			}
			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_Config_FillDefaults(t *testing.T) {
	assert := assert.New(t)

	cfg := Config{}
	filled := cfg.FillDefaults()

	assert.NotEmpty(filled.TokenSecret)
	assert.Equal(DatabaseInMemory, filled.DB.Type)
	assert.Equal(1000, filled.UnauthDelayMillis)
	assert.Equal(":8080", filled.Addr)

	// explicitly set values must not be overridden
	cfg2 := Config{Addr: ":9090", UnauthDelayMillis: -1}
	filled2 := cfg2.FillDefaults()
	assert.Equal(":9090", filled2.Addr)
	assert.Equal(-1, filled2.UnauthDelayMillis)
}

func Test_Config_Validate(t *testing.T) {
	assert := assert.New(t)

	validSecret := make([]byte, MinSecretSize)
	validHash := []byte("$2a$10$abcdefghijklmnopqrstuv")

	base := Config{
		TokenSecret:     validSecret,
		OperatorKeyHash: validHash,
		DB:              Database{Type: DatabaseInMemory},
	}
	assert.NoError(base.Validate())

	tooShort := base
	tooShort.TokenSecret = make([]byte, MinSecretSize-1)
	assert.Error(tooShort.Validate())

	tooLong := base
	tooLong.TokenSecret = make([]byte, MaxSecretSize+1)
	assert.Error(tooLong.Validate())

	noHash := base
	noHash.OperatorKeyHash = nil
	assert.Error(noHash.Validate())

	badDB := base
	badDB.DB = Database{Type: DatabaseSQLite}
	assert.Error(badDB.Validate())
}

func Test_Config_UnauthDelay(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(int64(0), Config{UnauthDelayMillis: 0}.UnauthDelay().Milliseconds())
	assert.Equal(int64(0), Config{UnauthDelayMillis: -1}.UnauthDelay().Milliseconds())
	assert.Equal(int64(500), Config{UnauthDelayMillis: 500}.UnauthDelay().Milliseconds())
}
