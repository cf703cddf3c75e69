package cluster

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/okapi-spinner/spinner/pkg/actor"
)

// SimpleProvider is the cluster directory used by both the
// single-machine job driver and the multi-node deployment. It tracks
// which PIDs exist for each ActorType and, when a transport is
// enabled, forwards remote sends to it.
type SimpleProvider struct {
	machineID   string
	machines    map[string]string
	transport   *Transport
	coordinator actor.PID
	actorMap    map[actor.ActorType][]actor.PID
	mu          sync.RWMutex
}

func NewSimpleProvider(machineID string, useTransportLayer bool) *SimpleProvider {
	p := &SimpleProvider{
		machineID:   machineID,
		machines:    make(map[string]string),
		coordinator: actor.PID{},
		actorMap:    make(map[actor.ActorType][]actor.PID),
	}

	if useTransportLayer {
		p.transport = NewTransport(machineID, 8080)
	}

	return p
}

func (p *SimpleProvider) MachineID() string {
	return p.machineID
}

func (p *SimpleProvider) Start(ctx context.Context) error {
	p.mu.Lock()
	p.machines[p.machineID] = "localhost:8080"
	p.mu.Unlock()

	if p.transport != nil {
		return p.transport.Start(ctx)
	}
	return nil
}

func (p *SimpleProvider) SetActorSystem(system *actor.ActorSystem) {
	if p.transport != nil {
		p.transport.SetActorSystem(system)
	}
}

func (p *SimpleProvider) SetCoordinator(coordinator actor.PID) {
	p.coordinator = coordinator
}

func (p *SimpleProvider) RegisterActor(actorType actor.ActorType, pid actor.PID) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.actorMap[actorType] = append(p.actorMap[actorType], pid)
	actors := p.actorMap[actorType]

	// Sort by MachineID then ActorID so hashing a vertex ID to a shard
	// index is reproducible across every node in the cluster.
	sort.Slice(actors, func(i, j int) bool {
		if actors[i].MachineID != actors[j].MachineID {
			return actors[i].MachineID < actors[j].MachineID
		}
		return actors[i].ActorID < actors[j].ActorID
	})

	return nil
}

func (p *SimpleProvider) GetCoordinator() actor.PID {
	return p.coordinator
}

func (p *SimpleProvider) GetActors(actorType actor.ActorType) []actor.PID {
	p.mu.RLock()
	defer p.mu.RUnlock()

	actors := make([]actor.PID, len(p.actorMap[actorType]))
	copy(actors, p.actorMap[actorType])
	return actors
}

func (p *SimpleProvider) FindActor(actorID string) (actor.PID, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, pids := range p.actorMap {
		for _, pid := range pids {
			if pid.ActorID == actorID {
				return pid, nil
			}
		}
	}
	return actor.PID{}, fmt.Errorf("no actor registered with id %s", actorID)
}

func (p *SimpleProvider) RegisterMachine(machineID, address string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.machines[machineID]; !exists {
		p.machines[machineID] = address
	}
}

func (p *SimpleProvider) Send(to actor.PID, msg actor.Message) error {
	if p.transport == nil {
		return fmt.Errorf("transport layer not enabled")
	}
	p.mu.RLock()
	address := p.machines[to.MachineID]
	p.mu.RUnlock()
	return p.transport.Send(to, address, msg)
}

func (p *SimpleProvider) Stop() error {
	if p.transport != nil {
		return p.transport.Stop()
	}
	return nil
}
