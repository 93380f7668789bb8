package controller

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/canopy-network/fundpolls/fsm"
	"github.com/canopy-network/fundpolls/lib"
	"github.com/canopy-network/fundpolls/store"
)

// Controller acts as the 'manager' of the modules of the application
// every call that touches the state machine holds the mutex, so operations are applied one at a time
type Controller struct {
	FSM     *fsm.StateMachine
	store   lib.StoreI
	Metrics *lib.Metrics
	stopped atomic.Bool
	Config  lib.Config
	log     lib.LoggerI
	sync.Mutex
}

// New() creates a new instance of a Controller, this is the entry point when initializing a polls node
func New(c lib.Config, metrics *lib.Metrics, l lib.LoggerI) (*Controller, lib.ErrorI) {
	db, err := store.New(c, l.Named("store"))
	if err != nil {
		return nil, err
	}
	sm, err := fsm.New(c, db, l.Named("fsm"))
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Controller{
		FSM:     sm,
		store:   db,
		Metrics: metrics,
		Config:  c,
		log:     l,
		Mutex:   sync.Mutex{},
	}, nil
}

// Start() produces heights every BlockTimeMS until the context is cancelled
func (c *Controller) Start(ctx context.Context) lib.ErrorI {
	interval := time.Duration(c.Config.BlockTimeMS) * time.Millisecond
	if interval <= 0 {
		interval = time.Duration(lib.DefaultBlockConfig().BlockTimeMS) * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	c.log.Infof("Producing heights every %s starting at height %d", interval, c.Height())
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := c.ProduceHeight(); err != nil {
				return err
			}
		}
	}
}

// ProduceHeight() commits the current height and runs the scheduled work of the next one
func (c *Controller) ProduceHeight() lib.ErrorI {
	c.Lock()
	defer c.Unlock()
	if c.stopped.Load() {
		return lib.ErrNodeStopped()
	}
	start := time.Now()
	if err := c.FSM.Commit(); err != nil {
		c.log.Errorf("commit failed with err: %s", err.Error())
		return err
	}
	c.log.Debugf("committed height %d", c.FSM.Height()-1)
	if err := c.FSM.BeginBlock(); err != nil {
		c.log.Errorf("begin block at height %d failed with err: %s", c.FSM.Height(), err.Error())
	}
	c.Metrics.UpdateHeight(c.FSM.Height(), time.Since(start))
	return nil
}

// Stop() terminates the Controller service
func (c *Controller) Stop() {
	c.Lock()
	defer c.Unlock()
	if c.stopped.Swap(true) {
		return
	}
	if err := c.store.Close(); err != nil {
		c.log.Error(err.Error())
	}
}

// SubmitMessage() applies the message at the current height
func (c *Controller) SubmitMessage(msg fsm.MessageI) (*fsm.MessageResult, lib.ErrorI) {
	c.Lock()
	defer c.Unlock()
	if c.stopped.Load() {
		return nil, lib.ErrNodeStopped()
	}
	result, err := c.FSM.ApplyMessage(msg)
	if err != nil {
		c.Metrics.MessageFailed(msg.Name(), err)
		if lib.IsFatal(err) {
			c.log.Errorf("message %s failed with a fatal err: %s", msg.Name(), err.Error())
		}
		return nil, err
	}
	c.Metrics.MessageApplied(msg.Name())
	c.log.Infof("applied %s at height %d", msg.Name(), c.FSM.Height())
	return result, nil
}

// ReadOnly() executes the callback against the latest state
// any write the callback makes is discarded
func (c *Controller) ReadOnly(callback func(sm *fsm.StateMachine) lib.ErrorI) lib.ErrorI {
	c.Lock()
	defer c.Unlock()
	if c.stopped.Load() {
		return lib.ErrNodeStopped()
	}
	txn := c.store.NewTxn()
	c.FSM.SetStore(txn)
	defer func() { txn.Discard(); c.FSM.SetStore(c.store) }()
	return callback(c.FSM)
}

// Height() returns the height currently being built
func (c *Controller) Height() uint64 {
	c.Lock()
	defer c.Unlock()
	return c.FSM.Height()
}

// Events() returns up to n of the latest committed polls events, n <= 0 returns all of them
func (c *Controller) Events(n int) lib.Events {
	log := c.FSM.Events()
	if log == nil {
		return nil
	}
	return log.Recent(n)
}
