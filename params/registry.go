package params

import "fmt"

// Options of the string-valued parameters.
const (
	Cyclic   = "cyclic"
	Block    = "block"
	Complete = "complete"
	SPAD     = "spad"
	Cache    = "cache"
)

// The names of all registered parameters.
const (
	CycleTime              = "cycle_time"
	Unrolling              = "unrolling"
	PartitionFactor        = "partition_factor"
	PartitionType          = "partition_type"
	Pipelining             = "pipelining"
	MemoryType             = "memory_type"
	CacheSize              = "cache_size"
	CacheAssoc             = "cache_assoc"
	CacheHitLatency        = "cache_hit_latency"
	CacheLineSz            = "cache_line_sz"
	CacheQueueSize         = "cache_queue_size"
	CacheBandwidth         = "cache_bandwidth"
	TLBHitLatency          = "tlb_hit_latency"
	TLBMissLatency         = "tlb_miss_latency"
	TLBPageSize            = "tlb_page_size"
	TLBEntries             = "tlb_entries"
	TLBMaxOutstandingWalks = "tlb_max_outstanding_walks"
	TLBAssoc               = "tlb_assoc"
	TLBBandwidth           = "tlb_bandwidth"
	L2CacheSize            = "l2cache_size"
	PerfectL1              = "perfect_l1"
	PerfectBus             = "perfect_bus"
	EnableL2               = "enable_l2"
	DMASetupOverhead       = "dma_setup_overhead"
	MaxDMARequests         = "max_dma_requests"
	DMAChunkSize           = "dma_chunk_size"
	PipelinedDMA           = "pipelined_dma"
	ReadyMode              = "ready_mode"
	DMAMultiChannel        = "dma_multi_channel"
	IgnoreCacheFlush       = "ignore_cache_flush"
	InvalidateOnDMAStore   = "invalidate_on_dma_store"
)

func intParam(name string, def int64) *Param {
	return &Param{Name: name, Kind: IntKind, Default: Int(def)}
}

func sizeParam(name string, def int64) *Param {
	p := intParam(name, def)
	p.formatFunc = IntToShortSize
	return p
}

func strParam(name, def string, opts ...string) *Param {
	return &Param{Name: name, Kind: StrKind, Default: Str(def), ValidOpts: opts}
}

func boolParam(name string, def bool) *Param {
	return &Param{Name: name, Kind: BoolKind, Default: Bool(def)}
}

var registry = []*Param{
	// Core accelerator parameters.
	intParam(CycleTime, 1),
	intParam(Unrolling, 1),
	intParam(PartitionFactor, 1),
	strParam(PartitionType, Cyclic, Complete, Cyclic, Block),
	intParam(Pipelining, 0),
	strParam(MemoryType, SPAD, SPAD, Cache),

	// Memory system.
	sizeParam(CacheSize, 16384),
	intParam(CacheAssoc, 4),
	intParam(CacheHitLatency, 1),
	intParam(CacheLineSz, 64),
	intParam(CacheQueueSize, 32),
	intParam(CacheBandwidth, 4),
	intParam(TLBHitLatency, 20),
	intParam(TLBMissLatency, 20),
	intParam(TLBPageSize, 4096),
	intParam(TLBEntries, 8),
	intParam(TLBMaxOutstandingWalks, 8),
	intParam(TLBAssoc, 0),
	intParam(TLBBandwidth, 4),
	sizeParam(L2CacheSize, 128*1024),
	intParam(PerfectL1, 0),
	intParam(PerfectBus, 0),
	intParam(EnableL2, 0),

	// DMA.
	intParam(DMASetupOverhead, 30),
	intParam(MaxDMARequests, 40),
	intParam(DMAChunkSize, 64),
	intParam(PipelinedDMA, 0),
	intParam(ReadyMode, 0),
	intParam(DMAMultiChannel, 0),
	intParam(IgnoreCacheFlush, 0),
	boolParam(InvalidateOnDMAStore, true),
}

var byName = func() map[string]*Param {
	m := make(map[string]*Param, len(registry))
	for _, p := range registry {
		m[p.Name] = p
	}
	return m
}()

// BenchmarkParams are the parameters bound once per benchmark.
var BenchmarkParams = []string{
	CycleTime,
	Pipelining,
	CacheSize,
	CacheAssoc,
	CacheHitLatency,
	CacheLineSz,
	CacheQueueSize,
	CacheBandwidth,
	TLBHitLatency,
	TLBMissLatency,
	TLBPageSize,
	TLBEntries,
	TLBMaxOutstandingWalks,
	TLBAssoc,
	TLBBandwidth,
	L2CacheSize,
	EnableL2,
	PerfectL1,
	PerfectBus,
	PipelinedDMA,
	ReadyMode,
	DMAMultiChannel,
	IgnoreCacheFlush,
}

// ArrayParams are the parameters bound per array.
var ArrayParams = []string{PartitionType, PartitionFactor, MemoryType}

// LoopParams are the parameters bound per loop.
var LoopParams = []string{Unrolling}

// SweepParams are the parameters bound once for a whole sweep.
var SweepParams = []string{MemoryType}

// Lookup returns the registered parameter with the given name.
func Lookup(name string) (*Param, bool) {
	p, ok := byName[name]
	return p, ok
}

// MustLookup is like Lookup but panics on unknown names.
func MustLookup(name string) *Param {
	p, ok := byName[name]
	if !ok {
		panic(fmt.Sprintf("unknown parameter %s", name))
	}

	return p
}

// All returns all registered parameters in declaration order.
func All() []*Param {
	out := make([]*Param, len(registry))
	copy(out, registry)

	return out
}

// Defaults returns the formatted default value of every parameter.
func Defaults() map[string]string {
	d := make(map[string]string, len(registry))
	for _, p := range registry {
		d[p.Name] = p.Format(p.Default)
	}

	return d
}

// Contains checks if a parameter name is in a list of names.
func Contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}

	return false
}
