package registry

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveEventDeterministic(t *testing.T) {
	organizer := common.HexToAddress("0x1111111111111111111111111111111111111111")

	addr1, proof1 := DeriveEvent(organizer, "evt1")
	addr2, proof2 := DeriveEvent(organizer, "evt1")

	assert.Equal(t, addr1, addr2)
	assert.Equal(t, proof1, proof2)
}

func TestDeriveEventDistinctInputs(t *testing.T) {
	o1 := common.HexToAddress("0x1111111111111111111111111111111111111111")
	o2 := common.HexToAddress("0x2222222222222222222222222222222222222222")

	addr1, _ := DeriveEvent(o1, "evt1")
	addr2, _ := DeriveEvent(o2, "evt1")
	addr3, _ := DeriveEvent(o1, "evt2")

	assert.NotEqual(t, addr1, addr2, "different organizer must yield a different address")
	assert.NotEqual(t, addr1, addr3, "different event id must yield a different address")
}

func TestDeriveKindsDoNotCollide(t *testing.T) {
	user := common.HexToAddress("0x3333333333333333333333333333333333333333")

	profileAddr, _ := DeriveProfile(user)
	eventAddr, _ := Derive(KindEvent, user.Bytes())

	assert.NotEqual(t, profileAddr, eventAddr)
}

func TestProofDiffersFromAddress(t *testing.T) {
	organizer := common.HexToAddress("0x1111111111111111111111111111111111111111")

	addr, proof := DeriveEvent(organizer, "evt1")
	assert.NotEqual(t, addr.Bytes(), proof[:20])
}

func TestProofTextRoundTrip(t *testing.T) {
	organizer := common.HexToAddress("0x1111111111111111111111111111111111111111")
	_, proof := DeriveEvent(organizer, "evt1")

	text, err := proof.MarshalText()
	require.NoError(t, err)

	var decoded Proof
	require.NoError(t, decoded.UnmarshalText(text))
	assert.Equal(t, proof, decoded)

	assert.Error(t, decoded.UnmarshalText([]byte("abcd")))
	assert.Error(t, decoded.UnmarshalText([]byte("zz")))
}
