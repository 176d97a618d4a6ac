package memory

import (
	"errors"

	"modboard/app/models"
	"modboard/app/repositories"
)

var errReadOnly = errors.New("write in read-only transaction")

type postRepo struct{ *tx }

func (r *postRepo) Create(post *models.Post) error {
	if err := r.writable(); err != nil {
		return err
	}
	post.ID = r.d.nextID(repositories.PostSeqKey)
	r.d.posts[post.ID] = *post
	return nil
}

func (r *postRepo) GetByID(id int) (*models.Post, error) {
	post, ok := r.d.posts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &post, nil
}

func (r *postRepo) List() ([]*models.Post, error) {
	posts := make([]*models.Post, 0, len(r.d.posts))
	for _, id := range sortedKeys(r.d.posts) {
		post := r.d.posts[id]
		posts = append(posts, &post)
	}
	return posts, nil
}

func (r *postRepo) ListByAuthor(authorID int) ([]*models.Post, error) {
	var posts []*models.Post
	for _, id := range sortedKeys(r.d.posts) {
		if post := r.d.posts[id]; post.AuthorID == authorID {
			posts = append(posts, &post)
		}
	}
	return posts, nil
}

func (r *postRepo) Update(post *models.Post) error {
	if err := r.writable(); err != nil {
		return err
	}
	if _, ok := r.d.posts[post.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.d.posts[post.ID] = *post
	return nil
}

func (r *postRepo) Delete(id int) error {
	if err := r.writable(); err != nil {
		return err
	}
	if _, ok := r.d.posts[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.d.posts, id)
	return nil
}

type commentRepo struct{ *tx }

func (r *commentRepo) Create(comment *models.Comment) error {
	if err := r.writable(); err != nil {
		return err
	}
	comment.ID = r.d.nextID(repositories.CommentSeqKey)
	r.d.comments[comment.ID] = *comment
	return nil
}

func (r *commentRepo) GetByID(id int) (*models.Comment, error) {
	comment, ok := r.d.comments[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &comment, nil
}

func (r *commentRepo) ListByPost(postID int) ([]*models.Comment, error) {
	var comments []*models.Comment
	for _, id := range sortedKeys(r.d.comments) {
		if comment := r.d.comments[id]; comment.PostID == postID {
			comments = append(comments, &comment)
		}
	}
	return comments, nil
}

func (r *commentRepo) Delete(id int) error {
	if err := r.writable(); err != nil {
		return err
	}
	if _, ok := r.d.comments[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.d.comments, id)
	return nil
}

type reportRepo struct{ *tx }

func (r *reportRepo) Create(report *models.Report) error {
	if err := r.writable(); err != nil {
		return err
	}
	report.ID = r.d.nextID(repositories.ReportSeqKey)
	r.d.reports[report.ID] = copyReport(*report)
	return nil
}

func (r *reportRepo) GetByID(id int) (*models.Report, error) {
	report, ok := r.d.reports[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	report = copyReport(report)
	return &report, nil
}

func (r *reportRepo) List() ([]*models.Report, error) {
	return r.filter(func(models.Report) bool { return true }), nil
}

func (r *reportRepo) ListByPost(postID int) ([]*models.Report, error) {
	return r.filter(func(rep models.Report) bool { return rep.TargetsPost(postID) }), nil
}

func (r *reportRepo) ListByComment(commentID int) ([]*models.Report, error) {
	return r.filter(func(rep models.Report) bool { return rep.TargetsComment(commentID) }), nil
}

func (r *reportRepo) filter(keep func(models.Report) bool) []*models.Report {
	var reports []*models.Report
	for _, id := range sortedKeys(r.d.reports) {
		if report := r.d.reports[id]; keep(report) {
			report = copyReport(report)
			reports = append(reports, &report)
		}
	}
	return reports
}

func (r *reportRepo) Update(report *models.Report) error {
	if err := r.writable(); err != nil {
		return err
	}
	existing, ok := r.d.reports[report.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	updated := copyReport(*report)
	updated.PostID, updated.CommentID = existing.PostID, existing.CommentID
	r.d.reports[report.ID] = updated
	return nil
}

type userRepo struct{ *tx }

func (r *userRepo) find(match func(models.User) bool) (*models.User, error) {
	for _, id := range sortedKeys(r.d.users) {
		if user := r.d.users[id]; match(user) {
			return &user, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *userRepo) Create(user *models.User) error {
	if err := r.writable(); err != nil {
		return err
	}
	nick := models.NormalizeNickname(user.Nickname)
	for _, existing := range r.d.users {
		if existing.ClerkID == user.ClerkID || models.NormalizeNickname(existing.Nickname) == nick {
			return repositories.ErrDuplicate
		}
	}
	user.ID = r.d.nextID(repositories.UserSeqKey)
	r.d.users[user.ID] = *user
	return nil
}

func (r *userRepo) GetByID(id int) (*models.User, error) {
	user, ok := r.d.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &user, nil
}

func (r *userRepo) GetByClerkID(clerkID string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.ClerkID == clerkID })
}

func (r *userRepo) GetByNickname(nickname string) (*models.User, error) {
	nick := models.NormalizeNickname(nickname)
	return r.find(func(u models.User) bool { return models.NormalizeNickname(u.Nickname) == nick })
}

func (r *userRepo) List() ([]*models.User, error) {
	users := make([]*models.User, 0, len(r.d.users))
	for _, id := range sortedKeys(r.d.users) {
		user := r.d.users[id]
		users = append(users, &user)
	}
	return users, nil
}

func (r *userRepo) Update(user *models.User) error {
	if err := r.writable(); err != nil {
		return err
	}
	existing, ok := r.d.users[user.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	nick := models.NormalizeNickname(user.Nickname)
	for id, other := range r.d.users {
		if id != user.ID && models.NormalizeNickname(other.Nickname) == nick {
			return repositories.ErrDuplicate
		}
	}
	user.ClerkID = existing.ClerkID
	r.d.users[user.ID] = *user
	return nil
}
