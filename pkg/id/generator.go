package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// New returns a prefixed ULID, e.g. "att_01J9X...".
func New(prefix string) string {
	u := ulid.MustNew(ulid.Timestamp(time.Now()), ulid.Monotonic(rand.Reader, 0))
	return prefix + "_" + u.String()
}

// Short returns a compact id: <prefix><ts hex><random hex>, ~12 chars.
func Short(prefix string) string {
	ts := time.Now().UnixNano() / 1e6
	tsHex := fmt.Sprintf("%06x", ts&0xFFFFFF)

	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return prefix + tsHex + hex.EncodeToString(b)
}
