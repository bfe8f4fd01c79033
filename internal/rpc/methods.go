package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
)

// BlockNumber calls eth_blockNumber and returns the current block height
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	result, err := c.Call(ctx, "eth_blockNumber")
	if err != nil {
		return 0, err
	}

	var hexStr string
	if err := json.Unmarshal(result, &hexStr); err != nil {
		return 0, protocolError("eth_blockNumber", "failed to parse block number", err)
	}
	return ParseHexUint64(hexStr)
}

// GetBalance calls eth_getBalance and returns the balance in wei
func (c *Client) GetBalance(ctx context.Context, address string, block BlockTag) (*big.Int, error) {
	result, err := c.Call(ctx, "eth_getBalance", address, block)
	if err != nil {
		return nil, err
	}

	var hexStr string
	if err := json.Unmarshal(result, &hexStr); err != nil {
		return nil, protocolError("eth_getBalance", "failed to parse balance", err)
	}
	return HexToInt(&hexStr)
}

// GetBlockByNumber calls eth_getBlockByNumber. It returns the decoded block
// alongside the raw result; an unknown block is a KindNotFound error.
// If fullTx is false, only transaction hashes are returned (lighter call)
func (c *Client) GetBlockByNumber(ctx context.Context, block BlockTag, fullTx bool) (*Block, json.RawMessage, error) {
	result, err := c.Call(ctx, "eth_getBlockByNumber", block, fullTx)
	if err != nil {
		return nil, nil, err
	}
	if IsNullResult(result) {
		return nil, nil, NotFoundError("eth_getBlockByNumber", fmt.Sprintf("block %s", block))
	}

	var b Block
	if err := json.Unmarshal(result, &b); err != nil {
		return nil, nil, protocolError("eth_getBlockByNumber", "failed to parse block", err)
	}
	return &b, result, nil
}

// EthCall executes a read-only call against the state at block and returns
// the hex-encoded return data.
func (c *Client) EthCall(ctx context.Context, msg CallMsg, block BlockTag) (string, error) {
	result, err := c.Call(ctx, "eth_call", msg, block)
	if err != nil {
		return "", err
	}

	var hexStr string
	if err := json.Unmarshal(result, &hexStr); err != nil {
		return "", protocolError("eth_call", "failed to parse call result", err)
	}
	return hexStr, nil
}
