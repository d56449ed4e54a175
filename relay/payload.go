package relay

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
)

// TransferPayload is the RLP-encoded body carried inside Message.Payload.
// The receiving side decodes it to learn where custody goes; Data is the
// optional free-form string of the payload-carrying variant.
type TransferPayload struct {
	Recipient common.Address
	Asset     common.Address
	Amount    *big.Int
	Data      []byte
}

func EncodeTransferPayload(p *TransferPayload) ([]byte, error) {
	out, err := rlp.EncodeToBytes(p)
	if err != nil {
		return nil, fmt.Errorf("cannot encode transfer payload: %s", err.Error())
	}
	return out, nil
}

func DecodeTransferPayload(raw []byte) (*TransferPayload, error) {
	var p TransferPayload
	if err := rlp.DecodeBytes(raw, &p); err != nil {
		return nil, fmt.Errorf("cannot decode transfer payload: %s", err.Error())
	}
	return &p, nil
}
