package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"net"
	"strings"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/greenloop/wastecoin/internal/domain"
)

// Minimal ABI of the WasteCoin contract: the read and the two mutations the
// platform performs.
const wasteCoinABI = `[
  {"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"mintCoins","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"},{"name":"reason","type":"string"}],"outputs":[]}
]`

const txGasLimit = 200_000

// EthGateway talks to the WasteCoin contract over JSON-RPC. Minting is signed
// by the server-held operator key; transfers are signed by a caller-supplied
// custodial key.
type EthGateway struct {
	client      *ethclient.Client
	contract    common.Address
	contractABI abi.ABI
	operatorKey *ecdsa.PrivateKey
	chainID     *big.Int
	timeout     time.Duration
}

func NewEthGateway(rpcURL, contractAddr, operatorKeyHex string, chainID int64, timeout time.Duration) (*EthGateway, error) {
	if !common.IsHexAddress(contractAddr) {
		return nil, fmt.Errorf("invalid contract address %q", contractAddr)
	}
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}
	parsed, err := abi.JSON(strings.NewReader(wasteCoinABI))
	if err != nil {
		return nil, fmt.Errorf("parse abi: %w", err)
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(operatorKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse operator key: %w", err)
	}
	return &EthGateway{
		client:      client,
		contract:    common.HexToAddress(contractAddr),
		contractABI: parsed,
		operatorKey: key,
		chainID:     big.NewInt(chainID),
		timeout:     timeout,
	}, nil
}

func (g *EthGateway) Balance(ctx context.Context, address string) (string, error) {
	if !common.IsHexAddress(address) {
		return "", domain.ErrInvalidAddress
	}
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	data, err := g.contractABI.Pack("balanceOf", common.HexToAddress(address))
	if err != nil {
		return "", err
	}
	res, err := g.client.CallContract(ctx, ethereum.CallMsg{To: &g.contract, Data: data}, nil)
	if err != nil {
		return "", classify(err)
	}
	out, err := g.contractABI.Unpack("balanceOf", res)
	if err != nil {
		return "", err
	}
	return FromBaseUnit(out[0].(*big.Int)), nil
}

func (g *EthGateway) Mint(ctx context.Context, to string, amount float64, reason string) (*Receipt, error) {
	if !common.IsHexAddress(to) {
		return nil, domain.ErrInvalidAddress
	}
	data, err := g.contractABI.Pack("mintCoins", common.HexToAddress(to), ToBaseUnit(amount), reason)
	if err != nil {
		return nil, err
	}
	return g.submit(ctx, g.operatorKey, data)
}

func (g *EthGateway) Transfer(ctx context.Context, signerKey, to string, amount float64) (*Receipt, error) {
	if !common.IsHexAddress(to) {
		return nil, domain.ErrInvalidAddress
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(signerKey, "0x"))
	if err != nil {
		// a key that fails to parse means custody decryption went wrong
		return nil, domain.ErrDecryption
	}
	data, err := g.contractABI.Pack("transfer", common.HexToAddress(to), ToBaseUnit(amount))
	if err != nil {
		return nil, err
	}
	return g.submit(ctx, key, data)
}

// submit signs a contract call, sends it and waits for it to be mined.
func (g *EthGateway) submit(ctx context.Context, key *ecdsa.PrivateKey, data []byte) (*Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	from := crypto.PubkeyToAddress(key.PublicKey)
	nonce, err := g.client.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, classify(err)
	}
	gasPrice, err := g.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, classify(err)
	}
	tx := types.NewTransaction(nonce, g.contract, big.NewInt(0), txGasLimit, gasPrice, data)
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(g.chainID), key)
	if err != nil {
		return nil, err
	}
	if err := g.client.SendTransaction(ctx, signed); err != nil {
		return nil, classify(err)
	}
	receipt, err := bind.WaitMined(ctx, g.client, signed)
	if err != nil {
		return nil, classify(err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("transaction %s reverted", signed.Hash().Hex())
	}
	return &Receipt{TxHash: signed.Hash().Hex()}, nil
}

// classify maps transport errors onto the caller-facing failure modes.
func classify(err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return domain.ErrChainUnavailable
	case errors.As(err, &netErr) && netErr.Timeout():
		return domain.ErrChainUnavailable
	case strings.Contains(err.Error(), "insufficient funds"):
		return domain.ErrInsufficientFunds
	}
	return err
}
