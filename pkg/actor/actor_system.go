package actor

import (
	"context"
	"fmt"
	"sync"
)

// Transport carries messages to actors hosted on other machines. The
// bulk-synchronous graph execution framework this package plugs into
// is treated as an external collaborator: ActorSystem only needs the
// three operations below, however they end up wired (in-process
// channel, gRPC, or otherwise).
type Transport interface {
	Send(to PID, msg Message) error
	Start(ctx context.Context) error
	Stop() error
}

// Provider is the cluster directory: it knows which PIDs exist for a
// given ActorType, regardless of which machine hosts them.
type Provider interface {
	GetActors(actorType ActorType) []PID
	FindActor(actorID string) (PID, error)
	Start(ctx context.Context) error
	Stop() error
}

// ActorSystem is the local runtime: it owns the actors registered on
// this machine and routes messages to local or remote destinations.
type ActorSystem struct {
	machineID string
	actors    map[string]Actor
	mu        sync.RWMutex
	transport Transport
	provider  Provider
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewActorSystem(machineID string, transport Transport, provider Provider) *ActorSystem {
	ctx, cancel := context.WithCancel(context.Background())
	return &ActorSystem{
		machineID: machineID,
		actors:    make(map[string]Actor),
		transport: transport,
		provider:  provider,
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (s *ActorSystem) MachineID() string {
	return s.machineID
}

func (s *ActorSystem) Start() error {
	if s.provider != nil {
		if err := s.provider.Start(s.ctx); err != nil {
			return err
		}
	}
	if s.transport != nil {
		return s.transport.Start(s.ctx)
	}
	return nil
}

func (s *ActorSystem) Register(actor Actor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pid := actor.PID()
	if _, exists := s.actors[pid.ActorID]; exists {
		return fmt.Errorf("actor %s already registered", pid.ActorID)
	}

	s.actors[pid.ActorID] = actor
	return nil
}

func (s *ActorSystem) Unregister(actorID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.actors, actorID)
}

func (s *ActorSystem) Send(to PID, msg Message) error {
	if to.IsLocal(s.machineID) {
		return s.localDeliver(to, msg)
	}
	return s.remoteDeliver(to, msg)
}

func (s *ActorSystem) localDeliver(to PID, msg Message) error {
	s.mu.RLock()
	target, exists := s.actors[to.ActorID]
	s.mu.RUnlock()

	if !exists {
		return ErrActorNotFound
	}

	mailbox := target.GetMailbox()
	if mailbox != nil {
		return mailbox.Send(msg)
	}

	go target.Receive(s.ctx, msg)
	return nil
}

func (s *ActorSystem) remoteDeliver(to PID, msg Message) error {
	if s.transport == nil {
		return fmt.Errorf("no transport configured for remote delivery")
	}
	return s.transport.Send(to, msg)
}

func (s *ActorSystem) GetActor(actorID string) (Actor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	target, exists := s.actors[actorID]
	return target, exists
}

// GetActors returns every known PID of the given type, local or
// remote, as reported by the cluster provider.
func (s *ActorSystem) GetActors(actorType ActorType) []PID {
	if s.provider != nil {
		return s.provider.GetActors(actorType)
	}
	return nil
}

// Broadcast sends msg to every actor of actorType known to the
// provider. Delivery failures are swallowed per-destination the same
// way a Giraph superstep drops messages to vertices that halted; they
// are neither retried nor reported.
func (s *ActorSystem) Broadcast(actorType ActorType, msg Message) {
	for _, pid := range s.GetActors(actorType) {
		_ = s.Send(pid, msg)
	}
}

func (s *ActorSystem) FindActor(actorID string) (PID, error) {
	if s.provider != nil {
		return s.provider.FindActor(actorID)
	}
	return PID{}, fmt.Errorf("no cluster provider available")
}

func (s *ActorSystem) Shutdown() {
	s.cancel()

	s.mu.RLock()
	actors := make([]Actor, 0, len(s.actors))
	for _, a := range s.actors {
		actors = append(actors, a)
	}
	s.mu.RUnlock()

	for _, a := range actors {
		a.Stop()
	}

	if s.transport != nil {
		_ = s.transport.Stop()
	}
	if s.provider != nil {
		_ = s.provider.Stop()
	}
}
