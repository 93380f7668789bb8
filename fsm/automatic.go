package fsm

import "github.com/canopy-network/fundpolls/lib"

/* This file handles 'automatic' (non-message induced) state changes */

// BeginBlock() is code that is executed at the start of `applying` the block
// every poll end due at the current height is enacted in its own atomic scope
// a failing poll end is logged and dropped, it never blocks the others
func (s *StateMachine) BeginBlock() lib.ErrorI {
	var tasks []*Task
	err := s.atomic(lib.EventStageBeginBlock, func() (e lib.ErrorI) {
		tasks, e = s.scheduler.PopDue(s.Height())
		return
	})
	if err != nil {
		return err
	}
	for _, task := range tasks {
		if e := s.EnactPollEnd(task.PollId); e != nil {
			s.log.Errorf("enact end of poll %d at height %d failed with err: %s", task.PollId, task.Height, e.Error())
			continue
		}
		s.log.Infof("poll %d ended at height %d", task.PollId, task.Height)
	}
	return nil
}
