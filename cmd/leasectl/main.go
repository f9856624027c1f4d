package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/howeyc/gopass"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	flag "github.com/spf13/pflag"

	apiTypes "github.com/rentflow/rentflow/pkg/api/types"
	"github.com/rentflow/rentflow/pkg/client"
	"github.com/rentflow/rentflow/pkg/crypto"
	"github.com/rentflow/rentflow/pkg/lease"
	"github.com/rentflow/rentflow/pkg/proto"
	"github.com/rentflow/rentflow/pkg/wallet"
)

const passwordEnv = "RENTFLOW_WALLET_PASSWORD" // #nosec: it's a variable name

var usage = `

Usage:
  leasectl command [flags] [arguments]

Available Commands:
  keygen                      Add a new key to wallet and print its mnemonic
  import                      Add a key from an existing mnemonic
  whoami                      Print public keys in wallet
  address  <lease-id>         Print the derived address of a lease
  init     <lease-id>         Create a lease managed by the wallet key
  sign     <lease-id> <file>  Sign the lease with the hash of the document
  status   <lease-id> <state> Move an active lease to Terminated or Completed
  show     <lease-id>         Print the lease
  list                        Print all leases
  verify   <lease-id>         Check that the lease is signed by both parties and active
  events   <lease-id>         Print events of the lease
  graph                       Print the lease state machine in DOT format

`

type Opts struct {
	Node         string
	PathToWallet string
	Key          string
	Timeout      time.Duration

	Tenant   string
	Content  string
	Rent     uint64
	Deposit  uint64
	Start    string
	End      string
	Duration time.Duration
}

type command struct {
	opts   Opts
	fs     afero.Fs
	out    io.Writer
	passwd func() ([]byte, error)
}

func main() {
	opts := Opts{}

	flag.StringVarP(&opts.Node, "node", "n", "http://127.0.0.1:6870", "Lease service API address")
	flag.StringVarP(&opts.PathToWallet, "wallet", "w", "", "Path to wallet")
	flag.StringVarP(&opts.Key, "key", "k", "", "Public key from wallet to sign with, the first key by default")
	flag.DurationVar(&opts.Timeout, "timeout", 10*time.Second, "Request timeout")
	flag.StringVar(&opts.Tenant, "tenant", "", "Public key of the tenant")
	flag.StringVar(&opts.Content, "content", "", "Path to the lease document")
	flag.Uint64Var(&opts.Rent, "rent", 0, "Monthly rent")
	flag.Uint64Var(&opts.Deposit, "deposit", 0, "Security deposit")
	flag.StringVar(&opts.Start, "start", "", "Start date in RFC 3339 format, now by default")
	flag.StringVar(&opts.End, "end", "", "End date in RFC 3339 format")
	flag.DurationVar(&opts.Duration, "duration", 0, "Lease duration, used if no end date is given")

	flag.Parse()

	c := &command{opts: opts, fs: afero.NewOsFs(), out: os.Stdout, passwd: readPassword}
	if err := c.run(flag.Args()); err != nil {
		if errors.Is(err, errUsage) {
			showUsageAndExit()
		}
		fmt.Printf("Err: %s\n", err.Error())
		os.Exit(1)
	}
}

var errUsage = errors.New("invalid usage")

func showUsageAndExit() {
	fmt.Print(usage)
	flag.PrintDefaults()
	os.Exit(0)
}

func readPassword() ([]byte, error) {
	if p, ok := os.LookupEnv(passwordEnv); ok {
		return []byte(p), nil
	}
	fmt.Print("Enter password: ")
	pass, err := gopass.GetPasswd()
	if err != nil {
		return nil, errors.New("interrupt")
	}
	if len(pass) == 0 {
		return nil, errors.New("password required")
	}
	return pass, nil
}

func args(a []string, n int) ([]string, error) {
	if len(a) != n+1 {
		return nil, errUsage
	}
	return a[1:], nil
}

func (c *command) run(a []string) error {
	if len(a) == 0 {
		return errUsage
	}
	ctx, cancel := context.WithTimeout(context.Background(), c.opts.Timeout)
	defer cancel()

	switch a[0] {
	case "keygen":
		return c.keygen("")
	case "import":
		fmt.Print("Enter mnemonic: ")
		m, err := gopass.GetPasswdMasked()
		if err != nil {
			return errors.New("interrupt")
		}
		return c.keygen(string(m))
	case "whoami":
		return c.whoami()
	case "graph":
		_, err := fmt.Fprintln(c.out, lease.Graph())
		return err
	case "list":
		cl, err := c.client(false)
		if err != nil {
			return err
		}
		leases, _, err := cl.Leases.List(ctx)
		if err != nil {
			return err
		}
		return c.print(leases)
	case "init":
		p, err := args(a, 1)
		if err != nil {
			return err
		}
		return c.initialize(ctx, p[0])
	case "sign":
		p, err := args(a, 2)
		if err != nil {
			return err
		}
		return c.sign(ctx, p[0], p[1])
	case "status":
		p, err := args(a, 2)
		if err != nil {
			return err
		}
		status, err := proto.NewLeaseStatusFromString(p[1])
		if err != nil {
			return err
		}
		cl, err := c.client(true)
		if err != nil {
			return err
		}
		l, _, err := cl.Leases.UpdateStatus(ctx, p[0], status)
		if err != nil {
			return err
		}
		return c.print(l)
	case "address", "show", "verify", "events":
		p, err := args(a, 1)
		if err != nil {
			return err
		}
		return c.query(ctx, a[0], p[0])
	default:
		return errUsage
	}
}

func (c *command) walletStorage() (*wallet.Storage, error) {
	path := c.opts.PathToWallet
	if path == "" {
		p, err := wallet.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return wallet.NewStorage(c.fs, path), nil
}

func (c *command) keygen(mnemonic string) error {
	var err error
	if mnemonic == "" {
		mnemonic, err = wallet.NewMnemonic()
		if err != nil {
			return err
		}
	}
	seed, err := wallet.SeedFromMnemonic(mnemonic)
	if err != nil {
		return err
	}
	st, err := c.walletStorage()
	if err != nil {
		return err
	}
	pass, err := c.passwd()
	if err != nil {
		return err
	}
	w, err := st.LoadOrCreate(pass)
	if err != nil {
		return err
	}
	if err := w.AddSeed(seed); err != nil {
		return err
	}
	if err := st.Save(w, pass); err != nil {
		return err
	}
	pks := w.PublicKeys()
	_, err = fmt.Fprintf(c.out, "mnemonic: %s\npublic key: %s\n", mnemonic, pks[len(pks)-1])
	return err
}

func (c *command) whoami() error {
	st, err := c.walletStorage()
	if err != nil {
		return err
	}
	pass, err := c.passwd()
	if err != nil {
		return err
	}
	w, err := st.Load(pass)
	if err != nil {
		return err
	}
	for _, pk := range w.PublicKeys() {
		if _, err := fmt.Fprintln(c.out, pk.String()); err != nil {
			return err
		}
	}
	return nil
}

func (c *command) secretKey() (*crypto.SecretKey, error) {
	st, err := c.walletStorage()
	if err != nil {
		return nil, err
	}
	pass, err := c.passwd()
	if err != nil {
		return nil, err
	}
	w, err := st.Load(pass)
	if err != nil {
		return nil, err
	}
	pks := w.PublicKeys()
	if len(pks) == 0 {
		return nil, errors.New("wallet is empty")
	}
	pk := pks[0]
	if c.opts.Key != "" {
		if pk, err = crypto.NewPublicKeyFromBase58(c.opts.Key); err != nil {
			return nil, errors.Wrap(err, "invalid key")
		}
	}
	sk, err := w.SecretKey(pk)
	if err != nil {
		return nil, err
	}
	return &sk, nil
}

func (c *command) client(signing bool) (*client.Client, error) {
	opts := client.Options{BaseUrl: c.opts.Node}
	if signing {
		sk, err := c.secretKey()
		if err != nil {
			return nil, err
		}
		opts.SecretKey = sk
	}
	return client.NewClient(opts)
}

func (c *command) hashFile(path string) (crypto.Digest, error) {
	b, err := afero.ReadFile(c.fs, path)
	if err != nil {
		return crypto.Digest{}, err
	}
	return crypto.FastHash(b)
}

func parseDate(s string, def time.Time) (time.Time, error) {
	if s == "" {
		return def, nil
	}
	return time.Parse(time.RFC3339, s)
}

func (c *command) initializeRequest(leaseID string, now time.Time) (apiTypes.InitializeRequest, error) {
	req := apiTypes.InitializeRequest{
		LeaseID:         leaseID,
		MonthlyRent:     c.opts.Rent,
		SecurityDeposit: c.opts.Deposit,
	}
	tenant, err := crypto.NewPublicKeyFromBase58(c.opts.Tenant)
	if err != nil {
		return req, errors.Wrap(err, "invalid tenant")
	}
	req.Tenant = tenant
	if c.opts.Content == "" {
		return req, errors.New("lease document required")
	}
	if req.ContentHash, err = c.hashFile(c.opts.Content); err != nil {
		return req, err
	}
	start, err := parseDate(c.opts.Start, now)
	if err != nil {
		return req, errors.Wrap(err, "invalid start date")
	}
	end, err := parseDate(c.opts.End, start.Add(c.opts.Duration))
	if err != nil {
		return req, errors.Wrap(err, "invalid end date")
	}
	req.StartDate, req.EndDate = start.Unix(), end.Unix()
	return req, nil
}

func (c *command) initialize(ctx context.Context, leaseID string) error {
	req, err := c.initializeRequest(leaseID, time.Now())
	if err != nil {
		return err
	}
	cl, err := c.client(true)
	if err != nil {
		return err
	}
	res, _, err := cl.Leases.Initialize(ctx, req)
	if err != nil {
		return err
	}
	return c.print(res)
}

func (c *command) sign(ctx context.Context, leaseID, document string) error {
	h, err := c.hashFile(document)
	if err != nil {
		return err
	}
	cl, err := c.client(true)
	if err != nil {
		return err
	}
	l, _, err := cl.Leases.Sign(ctx, leaseID, h)
	if err != nil {
		return err
	}
	return c.print(l)
}

func (c *command) query(ctx context.Context, cmd, leaseID string) error {
	cl, err := c.client(false)
	if err != nil {
		return err
	}
	var v any
	switch cmd {
	case "address":
		v, _, err = cl.Leases.Address(ctx, leaseID)
	case "show":
		v, _, err = cl.Leases.Lease(ctx, leaseID)
	case "verify":
		v, _, err = cl.Leases.Verify(ctx, leaseID)
	case "events":
		v, _, err = cl.Leases.Events(ctx, leaseID)
	default:
		return errUsage
	}
	if err != nil {
		return err
	}
	return c.print(v)
}

func (c *command) print(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
