package writer

import (
	"fmt"
	"strings"

	"github.com/sarchlab/xenon/benchmark"
	"github.com/sarchlab/xenon/params"
)

// CactiConfig is the geometry of one CACTI-modeled structure.
type CactiConfig struct {
	Size        int64
	Assoc       int64
	RWPorts     int64
	ExrPorts    int64
	ExwPorts    int64
	LineSize    int64
	Banks       int64
	CacheType   string
	SearchPorts int64
	IOBusWidth  int64
}

// CactiConfigs derives the cache, TLB, and queue geometries of a
// benchmark.
func CactiConfigs(c *benchmark.Config) (cache, tlb, queue CactiConfig) {
	rwPorts := max(1, c.Int(params.TLBBandwidth))

	cache = CactiConfig{
		Size:       c.Int(params.CacheSize),
		Assoc:      c.Int(params.CacheAssoc),
		RWPorts:    rwPorts,
		LineSize:   c.Int(params.CacheLineSz),
		Banks:      1,
		CacheType:  "cache",
		IOBusWidth: 16 * 8,
	}

	tlb = CactiConfig{
		Size:        c.Int(params.TLBEntries) * 8,
		ExwPorts:    1,
		ExrPorts:    rwPorts,
		LineSize:    8,
		Banks:       1,
		CacheType:   "cache",
		SearchPorts: rwPorts,
		IOBusWidth:  64,
	}

	queue = CactiConfig{
		Size:        c.Int(params.CacheQueueSize) * 8,
		RWPorts:     rwPorts,
		LineSize:    8,
		Banks:       1,
		CacheType:   "cache",
		SearchPorts: rwPorts,
		IOBusWidth:  64,
	}

	return cache, tlb, queue
}

// String renders the configuration in the CACTI 6.5 input format.
func (c CactiConfig) String() string {
	b := &strings.Builder{}

	fmt.Fprintf(b, "-size (bytes) %d\n", max(64, c.Size))
	fmt.Fprintf(b, "-associativity %d\n", c.Assoc)
	fmt.Fprintf(b, "-read-write port %d\n", c.RWPorts)
	fmt.Fprintf(b, "-cache type \"%s\"\n", c.CacheType)
	fmt.Fprintf(b, "-block size (bytes) %d\n", c.LineSize)
	fmt.Fprintf(b, "-search port %d\n", c.SearchPorts)
	fmt.Fprintf(b, "-output/input bus width %d\n", c.IOBusWidth)
	fmt.Fprintf(b, "-exclusive write port %d\n", c.ExwPorts)
	fmt.Fprintf(b, "-exclusive read port %d\n", c.ExrPorts)
	fmt.Fprintf(b, "-UCA bank count %d\n", c.Banks)
	b.WriteString(cactiDefaults)

	return b.String()
}

const cactiDefaults = `-Power Gating - "false"
-Power Gating Performance Loss 0.01
-single ended read ports 0
-technology (u) 0.040
-page size (bits) 8192 
-burst length 8
-internal prefetch width 8
-Data array cell type - "itrs-hp"
-Tag array cell type - "itrs-hp"
-Data array peripheral type - "itrs-hp"
-Tag array peripheral type - "itrs-hp"
-hp Vdd (V) "default"
-lstp Vdd (V) "default"
-lop Vdd (V) "default"
-Long channel devices - "true"
-operating temperature (K) 300
-tag size (b) "default"
-access mode (normal, sequential, fast) - "normal"
-design objective (weight delay, dynamic power, leakage power, cycle time, area) 0:0:100:0:0
-deviate (delay, dynamic power, leakage power, cycle time, area) 20:100000:100000:100000:100000
-NUCAdesign objective (weight delay, dynamic power, leakage power, cycle time, area) 100:100:0:0:100
-NUCAdeviate (delay, dynamic power, leakage power, cycle time, area) 10:10000:10000:10000:10000
-Optimize ED or ED^2 (ED, ED^2, NONE): "NONE"
-Cache model (NUCA, UCA)  - "UCA"
-NUCA bank count 0
-Wire signalling (fullswing, lowswing, default) - "Global_30"
-Wire inside mat - "semi-global"
-Wire outside mat - "semi-global"
-Interconnect projection - "conservative"
-Core count 1
-Cache level (L2/L3) - "L2"
-Add ECC - "false"
-Print level (DETAILED, CONCISE) - "DETAILED"
-Print input parameters - "false"
-Force cache config - "false"
-Ndwl 1
-Ndbl 1
-Nspd 0
-Ndcm 1
-Ndsam1 0
-Ndsam2 0
`
