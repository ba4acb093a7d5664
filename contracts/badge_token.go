package contracts

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"pop-backend/badge"
)

const mintGasLimit = 200_000

// BadgeToken wraps the badge credential contract: a non-fungible,
// zero-decimal token line whose mint entry point takes the recipient and
// the event's delegated-authority proof. One mint call issues exactly one
// unit.
type BadgeToken struct {
	client  *ethclient.Client
	address common.Address
	abi     abi.ABI
	minter  *ecdsa.PrivateKey
}

// NewBadgeToken creates a BadgeToken bound to the contract at address,
// signing mint transactions with the given hex-encoded minter key.
func NewBadgeToken(client *ethclient.Client, address, minterKeyHex string) (*BadgeToken, error) {
	// Badge contract ABI - only the functions we need
	badgeABI := `[
		{"inputs":[{"internalType":"address","name":"to","type":"address"},{"internalType":"bytes32","name":"authority","type":"bytes32"}],"name":"mintBadge","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"nonpayable","type":"function"},
		{"inputs":[{"internalType":"address","name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"}
	]`

	parsedABI, err := abi.JSON(strings.NewReader(badgeABI))
	if err != nil {
		return nil, errors.Wrap(err, "parse badge ABI")
	}

	minter, err := crypto.HexToECDSA(strings.TrimPrefix(minterKeyHex, "0x"))
	if err != nil {
		return nil, errors.Wrap(err, "parse minter key")
	}

	return &BadgeToken{
		client:  client,
		address: common.HexToAddress(address),
		abi:     parsedABI,
		minter:  minter,
	}, nil
}

// Mint issues one credential unit to owner under the event's delegated
// authority and returns the transaction hash as the credential identifier.
func (bt *BadgeToken) Mint(ctx context.Context, auth badge.Authority, owner common.Address) (string, error) {
	callData, err := bt.abi.Pack("mintBadge", owner, [32]byte(auth.Proof))
	if err != nil {
		return "", errors.Wrap(err, "pack mintBadge call")
	}

	from := crypto.PubkeyToAddress(bt.minter.PublicKey)
	nonce, err := bt.client.PendingNonceAt(ctx, from)
	if err != nil {
		return "", errors.Wrap(err, "fetch minter nonce")
	}
	gasPrice, err := bt.client.SuggestGasPrice(ctx)
	if err != nil {
		return "", errors.Wrap(err, "suggest gas price")
	}
	chainID, err := bt.client.ChainID(ctx)
	if err != nil {
		return "", errors.Wrap(err, "fetch chain id")
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &bt.address,
		Value:    big.NewInt(0),
		Gas:      mintGasLimit,
		GasPrice: gasPrice,
		Data:     callData,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), bt.minter)
	if err != nil {
		return "", errors.Wrap(err, "sign mint transaction")
	}
	if err := bt.client.SendTransaction(ctx, signed); err != nil {
		return "", errors.Wrap(err, "send mint transaction")
	}

	return signed.Hash().Hex(), nil
}

// BadgeCount calls balanceOf(owner) on the badge contract.
func (bt *BadgeToken) BadgeCount(ctx context.Context, owner common.Address) (*big.Int, error) {
	callData, err := bt.abi.Pack("balanceOf", owner)
	if err != nil {
		return nil, errors.Wrap(err, "pack balanceOf call")
	}

	result, err := bt.client.CallContract(ctx, ethereum.CallMsg{
		To:   &bt.address,
		Data: callData,
	}, nil)
	if err != nil {
		return nil, errors.Wrap(err, "call balanceOf")
	}

	var count *big.Int
	if err := bt.abi.UnpackIntoInterface(&count, "balanceOf", result); err != nil {
		return nil, errors.Wrap(err, "unpack balanceOf result")
	}
	return count, nil
}
