package keyvalue

import (
	"bytes"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
	"github.com/steakknife/bloomfilter"
)

var bloomFilterTrailer = []byte{0xaa, 0xbb, 0xcc, 0xdd}

type BloomFilterParams struct {
	// N is how many items will be added to the filter.
	N int
	// FalsePositiveProbability is acceptable false positive rate {0..1}.
	FalsePositiveProbability float64
	// Path where bloom cache stored, empty path disables the cache.
	Path string
	// Disable turns the filter off, all lookups go to the database.
	Disable bool
}

type bloomFilter struct {
	filter *bloomfilter.Filter
	params BloomFilterParams
}

func (bf *bloomFilter) WriteTo(w io.Writer) (n int64, err error) {
	return bf.filter.WriteTo(w)
}

func (bf *bloomFilter) ReadFrom(r io.Reader) (n int64, err error) {
	return bf.filter.ReadFrom(r)
}

func newBloomFilter(params BloomFilterParams) (*bloomFilter, error) {
	bf, err := bloomfilter.NewOptimal(uint64(params.N), params.FalsePositiveProbability)
	if err != nil {
		return nil, err
	}
	return &bloomFilter{filter: bf, params: params}, nil
}

// newBloomFilterFromStore loads the filter saved by storeBloomFilter and removes the file,
// so a crash before the next store forces a rebuild.
func newBloomFilterFromStore(params BloomFilterParams) (*bloomFilter, error) {
	bf, err := newBloomFilter(params)
	if err != nil {
		return nil, err
	}
	bts, err := os.ReadFile(params.Path)
	if err != nil {
		return nil, err
	}
	if err := os.Remove(params.Path); err != nil {
		return nil, err
	}
	if len(bts) < len(bloomFilterTrailer) || !bytes.Equal(bts[len(bts)-len(bloomFilterTrailer):], bloomFilterTrailer) {
		return nil, errors.New("bloomFilter: invalid data")
	}
	if _, err := bf.ReadFrom(bytes.NewReader(bts[:len(bts)-len(bloomFilterTrailer)])); err != nil {
		return nil, errors.Wrap(err, "bloomFilter: failed to read")
	}
	return bf, nil
}

func storeBloomFilter(f *bloomFilter) error {
	file, err := os.OpenFile(f.params.Path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer file.Close()
	if _, err := f.WriteTo(file); err != nil {
		return err
	}
	if _, err := file.Write(bloomFilterTrailer); err != nil {
		return err
	}
	return file.Sync()
}

func (bf *bloomFilter) add(data []byte) {
	f := xxhash.New()
	_, _ = f.Write(data) // never fails
	bf.filter.Add(f)
}

func (bf *bloomFilter) notInTheSet(data []byte) bool {
	f := xxhash.New()
	_, _ = f.Write(data)
	return !bf.filter.Contains(f)
}
