// Package cidutil derives content ids for submitted payloads. The CID of the
// signed transaction bytes is the handle callers use to correlate a
// submission with records observed elsewhere.
package cidutil

import (
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// PayloadCID returns a CIDv1 (raw + sha2-256) derived from the submitted
// signed transaction bytes.
func PayloadCID(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// PayloadCIDString returns PayloadCID's result as a string, or "" when the
// digest fails.
//
// multihash.Sum only errors for invalid inputs; with SHA2_256 and -1 length
// this should be unreachable.
func PayloadCIDString(data []byte) string {
	id, err := PayloadCID(data)
	if err != nil {
		return ""
	}
	return id.String()
}
