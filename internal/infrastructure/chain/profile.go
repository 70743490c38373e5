package chain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/citizenwallet/brussels-pay-wallet/internal/domain"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const profileABI = `[{"inputs":[{"name":"_account","type":"address"}],"name":"get","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"}]`

const ipfsScheme = "ipfs://"

// ProfileResolver reads the profile URI of an account from the community
// profile contract and downloads the profile document from IPFS.
type ProfileResolver struct {
	caller     Caller
	contract   common.Address
	ipfsBase   string
	httpClient *http.Client
	profiles   abi.ABI
}

// NewProfileResolver builds a resolver for the profile contract at address.
// ipfsDomain is a host name, or a full base URL with scheme.
func NewProfileResolver(caller Caller, address, ipfsDomain string) (*ProfileResolver, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("profile contract: %w", domain.ErrInvalidAddress)
	}
	if ipfsDomain == "" {
		return nil, errors.New("ipfs domain is not set")
	}
	parsed, err := abi.JSON(strings.NewReader(profileABI))
	if err != nil {
		return nil, err
	}

	base := strings.TrimRight(ipfsDomain, "/")
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}
	return &ProfileResolver{
		caller:     caller,
		contract:   common.HexToAddress(address),
		ipfsBase:   base,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		profiles:   parsed,
	}, nil
}

// Caller returns the RPC client the resolver reads through.
func (c *EthChain) Caller() Caller {
	return c.caller
}

func (r *ProfileResolver) ProfileOf(ctx context.Context, account string) (*domain.Profile, error) {
	if !common.IsHexAddress(account) {
		return nil, domain.ErrInvalidAddress
	}
	data, err := r.profiles.Pack("get", common.HexToAddress(account))
	if err != nil {
		return nil, err
	}

	out, err := r.caller.CallContract(ctx, ethereum.CallMsg{To: &r.contract, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("profile get: %w", err)
	}
	values, err := r.profiles.Unpack("get", out)
	if err != nil {
		return nil, fmt.Errorf("decode profile get: %w", err)
	}
	uri, _ := values[0].(string)
	if uri == "" {
		return nil, nil
	}

	profile, err := r.download(ctx, uri)
	if err != nil || profile == nil {
		return nil, err
	}
	profile.Image = r.URL(profile.Image)
	profile.ImageMedium = r.URL(profile.ImageMedium)
	profile.ImageSmall = r.URL(profile.ImageSmall)
	return profile, nil
}

// URL turns an ipfs:// URI or a bare content hash into a gateway URL.
// Other URLs are returned unchanged.
func (r *ProfileResolver) URL(uri string) string {
	switch {
	case uri == "":
		return ""
	case strings.HasPrefix(uri, ipfsScheme):
		return r.ipfsBase + "/" + strings.TrimPrefix(uri, ipfsScheme)
	case strings.Contains(uri, "://"):
		return uri
	}
	return r.ipfsBase + "/" + strings.TrimLeft(uri, "/")
}

func (r *ProfileResolver) download(ctx context.Context, uri string) (*domain.Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.URL(uri), nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download profile: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download profile: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("download profile: %w", err)
	}
	var profile domain.Profile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &profile, nil
}
