package appdb

import (
	"bytes"
	"testing"

	"github.com/WalletTeam/wallet-go-node/config"
)

func TestAppDBLastBlock(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{BaseConfig: config.BaseConfig{DBBackend: "memdb"}}
	appDB := NewAppDB(t.TempDir(), cfg)
	defer appDB.Close()

	if height := appDB.GetLastHeight(); height != 0 {
		t.Fatalf("Fresh db has last height %d", height)
	}
	if hash := appDB.GetLastBlockHash(); hash != nil {
		t.Fatalf("Fresh db has last block hash %X", hash)
	}

	hash := bytes.Repeat([]byte{0xab}, 32)
	appDB.SetLastHeight(42)
	appDB.SetLastBlockHash(hash)

	if height := appDB.GetLastHeight(); height != 42 {
		t.Fatalf("Last height is %d, want 42", height)
	}
	if got := appDB.GetLastBlockHash(); !bytes.Equal(got, hash) {
		t.Fatalf("Last block hash is %X, want %X", got, hash)
	}
}
