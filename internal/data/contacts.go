package data

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/akindipe/careerbridge/internal/apperr"
)

// UserDirectory is the subset of UsersStore the resolver needs.
type UserDirectory interface {
	GetUserByID(ctx context.Context, id bson.ObjectID) (*User, error)
	FindByRole(ctx context.Context, role Role) ([]User, error)
	FindMentees(ctx context.Context, mentorID bson.ObjectID) ([]User, error)
	FindAllExcept(ctx context.Context, id bson.ObjectID) ([]User, error)
}

// PartnerSource yields prior-conversation partners for a user.
type PartnerSource interface {
	PartnerIDs(ctx context.Context, userID bson.ObjectID) ([]bson.ObjectID, error)
}

// RoleRule computes the role-derived candidate set for a requester. The
// rules are deliberately kept as standalone values so the contact policy can
// be tightened per role without touching resolution or aggregation code.
type RoleRule func(ctx context.Context, dir UserDirectory, requester *User) ([]User, error)

// RolePolicy maps each requester role to its candidate rule.
type RolePolicy map[Role]RoleRule

// DefaultRolePolicy reproduces the shipped contact rules. The broad branches
// (all mentors for a plain user, all users for a mentor) are intentional
// current behavior; tightening them is a policy decision, not a refactor.
func DefaultRolePolicy() RolePolicy {
	return RolePolicy{
		RoleUser: func(ctx context.Context, dir UserDirectory, requester *User) ([]User, error) {
			var out []User
			if requester.Mentor != nil {
				mentor, err := dir.GetUserByID(ctx, *requester.Mentor)
				if err != nil {
					if apperr.KindOf(err) != apperr.KindNotFound {
						return nil, err
					}
					// assigned mentor was deleted; skip the reference
				} else {
					out = append(out, *mentor)
				}
			}
			admins, err := dir.FindByRole(ctx, RoleAdmin)
			if err != nil {
				return nil, err
			}
			mentors, err := dir.FindByRole(ctx, RoleMentor)
			if err != nil {
				return nil, err
			}
			return append(out, append(admins, mentors...)...), nil
		},
		RoleMentor: func(ctx context.Context, dir UserDirectory, requester *User) ([]User, error) {
			mentees, err := dir.FindMentees(ctx, requester.ID)
			if err != nil {
				return nil, err
			}
			admins, err := dir.FindByRole(ctx, RoleAdmin)
			if err != nil {
				return nil, err
			}
			users, err := dir.FindByRole(ctx, RoleUser)
			if err != nil {
				return nil, err
			}
			return append(mentees, append(admins, users...)...), nil
		},
		RoleAdmin: func(ctx context.Context, dir UserDirectory, requester *User) ([]User, error) {
			return dir.FindAllExcept(ctx, requester.ID)
		},
	}
}

// ContactResolver computes, per requesting user, the set of people they may
// message: the role-derived candidates unioned with every prior
// conversation partner.
type ContactResolver struct {
	users  UserDirectory
	msgs   PartnerSource
	policy RolePolicy
}

// NewContactResolver builds a resolver. A nil policy selects
// DefaultRolePolicy.
func NewContactResolver(users UserDirectory, msgs PartnerSource, policy RolePolicy) *ContactResolver {
	if policy == nil {
		policy = DefaultRolePolicy()
	}
	return &ContactResolver{users: users, msgs: msgs, policy: policy}
}

// Resolve returns the deduplicated candidate set for the requesting user.
// An internal failure inside the role-derived branch degrades to the
// admin-only fallback instead of failing the whole call; failures loading
// the requester or the prior-conversation set still propagate.
func (r *ContactResolver) Resolve(ctx context.Context, requesterID bson.ObjectID) ([]Candidate, error) {
	requester, err := r.users.GetUserByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	roleUsers, err := r.roleCandidates(ctx, requester)
	if err != nil {
		log.Printf("contact resolution for %s degraded to admin fallback: %v", requesterID.Hex(), err)
		roleUsers, err = r.users.FindByRole(ctx, RoleAdmin)
		if err != nil {
			return nil, err
		}
	}

	partnerIDs, err := r.msgs.PartnerIDs(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{requesterID.Hex(): true}
	var out []Candidate

	for i := range roleUsers {
		c := candidateFromUser(&roleUsers[i])
		if seen[c.UserID] {
			continue
		}
		seen[c.UserID] = true
		out = append(out, c)
	}

	// prior conversation partners qualify regardless of the role rules
	for _, id := range partnerIDs {
		if seen[id.Hex()] {
			continue
		}
		partner, err := r.users.GetUserByID(ctx, id)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindNotFound {
				// partner account deleted since the conversation happened
				continue
			}
			return nil, err
		}
		seen[id.Hex()] = true
		out = append(out, candidateFromUser(partner))
	}

	return out, nil
}

func (r *ContactResolver) roleCandidates(ctx context.Context, requester *User) ([]User, error) {
	rule, ok := r.policy[requester.Role]
	if !ok {
		// unrecognized role: admins only
		return r.users.FindByRole(ctx, RoleAdmin)
	}
	return rule(ctx, r.users, requester)
}

func candidateFromUser(u *User) Candidate {
	return Candidate{
		UserID:     u.ID.Hex(),
		Name:       u.Name,
		Avatar:     u.Avatar,
		Role:       u.Role,
		LastActive: u.LastSeen,
	}
}
